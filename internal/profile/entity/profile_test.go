package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile_Apply(t *testing.T) {
	tests := []struct {
		name    string
		attr    string
		value   any
		check   func(t *testing.T, p Profile)
		wantErr error
	}{
		{
			name:  "trims text",
			attr:  AttrAddress2,
			value: "  Apt 4 ",
			check: func(t *testing.T, p Profile) { assert.Equal(t, "Apt 4", p.Address2) },
		},
		{
			name:  "number becomes text",
			attr:  AttrYearsOfService,
			value: float64(12),
			check: func(t *testing.T, p Profile) { assert.Equal(t, "12", p.YearsOfService) },
		},
		{
			name:  "large number keeps its digits",
			attr:  AttrYearsOfService,
			value: json.Number("12345678901234567890123"),
			check: func(t *testing.T, p Profile) { assert.Equal(t, "12345678901234567890123", p.YearsOfService) },
		},
		{
			name:  "null clears",
			attr:  AttrSlackID,
			value: nil,
			check: func(t *testing.T, p Profile) { assert.Empty(t, p.SlackID) },
		},
		{
			name:  "bool",
			attr:  AttrIsMentor,
			value: true,
			check: func(t *testing.T, p Profile) { assert.True(t, p.IsMentor) },
		},
		{
			name:  "bool from form",
			attr:  AttrIsMentor,
			value: "false",
			check: func(t *testing.T, p Profile) { assert.False(t, p.IsMentor) },
		},
		{name: "bad bool", attr: AttrIsMentor, value: "maybe", wantErr: ErrInvalidValue},
		{name: "object for text", attr: AttrCity, value: map[string]any{}, wantErr: ErrInvalidValue},
		{name: "unknown", attr: "password", value: "x", wantErr: ErrUnknownAttribute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Profile{SlackID: "U1", IsMentor: true}

			err := p.Apply(tt.attr, tt.value)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, p)
		})
	}
}

func TestProfile_SlackFieldsChanged(t *testing.T) {
	before := Profile{SlackID: "U1", MilitaryStatus: MilitaryStatusVeteran, Address2: "a"}

	same := before
	same.Address2 = "b"
	assert.False(t, same.SlackFieldsChanged(&before))

	status := before
	status.MilitaryStatus = MilitaryStatusSpouse
	assert.True(t, status.SlackFieldsChanged(&before))

	slack := before
	slack.SlackID = "U2"
	assert.True(t, slack.SlackFieldsChanged(&before))
}

func TestIsAttribute(t *testing.T) {
	assert.True(t, IsAttribute("address_2"))
	assert.True(t, IsAttribute("is_mentor"))
	assert.False(t, IsAttribute("address2"))
	assert.False(t, IsAttribute("user_id"))
}
