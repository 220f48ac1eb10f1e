// Package messaging provides a broker-agnostic API for publishing and
// consuming messages.
//
// Business code depends on Publisher and Consumer only. The broker (NATS,
// NSQ, Kafka, Google Pub/Sub or the in-process Memory broker) is picked at
// startup by NewFromDriver.
package messaging
