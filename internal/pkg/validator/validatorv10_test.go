package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	SlackID        string `json:"slackId" validate:"max=16"`
	Zip            string `json:"zip" validate:"omitempty,max=10"`
	MilitaryStatus string `json:"militaryStatus" validate:"omitempty,oneof=current veteran"`
	PayGrade       string `validate:"max=2"`
}

func TestV10Validator_Validate(t *testing.T) {
	v, err := NewV10Validator()
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, v.Validate(sample{SlackID: "U123", Zip: "K1A#0B1", MilitaryStatus: "veteran"}))
	})

	t.Run("empty optional values pass", func(t *testing.T) {
		assert.NoError(t, v.Validate(sample{}))
	})

	t.Run("errors are keyed by json name", func(t *testing.T) {
		err := v.Validate(sample{
			SlackID:        "U12345678901234567",
			Zip:            "12345678901",
			MilitaryStatus: "retired",
			PayGrade:       "E-10",
		})

		var verr V10ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Len(t, verr.Values(), 4)
		assert.Contains(t, verr, "slackId")
		assert.Contains(t, verr, "militaryStatus")
		assert.Contains(t, verr, "payGrade")
		assert.Equal(t, "zip must be a maximum of 10 characters in length", verr["zip"])
	})
}
