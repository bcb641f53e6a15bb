package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, Brokers(" a:9092, ,b:9092 "))
	assert.Nil(t, Brokers(""))
}

func TestNewAsyncWriter(t *testing.T) {
	w := NewAsyncWriter([]string{"localhost:9092"}, nil)
	defer w.Close()
	assert.True(t, w.Async)
	assert.Empty(t, w.Topic)
}
