package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsGUID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"lowercase", "af5cc56a-e164-43cc-8ab2-cf7a76ff5242", true},
		{"uppercase", "AF5CC56A-E164-43CC-8AB2-CF7A76FF5242", true},
		{"missing dashes", "af5cc56ae16443cc8ab2cf7a76ff5242", false},
		{"braces", "{af5cc56a-e164-43cc-8ab2-cf7a76ff5242}", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsGUID(tt.input))
		})
	}
}

func TestNewValidator_Events(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Struct(TenantCreated{ID: "AF5CC56A-E164-43CC-8AB2-CF7A76FF5242"}))
	assert.Error(t, v.Struct(TenantDeleted{ID: "not-a-guid"}))
	assert.Error(t, v.Struct(TenantDeleted{}))
}

func TestNewEnvelope(t *testing.T) {
	envelope, err := NewEnvelope(TopicTenantCreated, TenantCreated{ID: "af5cc56a-e164-43cc-8ab2-cf7a76ff5242"})
	require.NoError(t, err)

	assert.NotEmpty(t, envelope.ID)
	assert.Equal(t, TopicTenantCreated, envelope.Topic)
	assert.False(t, envelope.PublishedAt.IsZero())

	var event TenantCreated
	require.NoError(t, json.Unmarshal(envelope.Payload, &event))
	assert.Equal(t, "af5cc56a-e164-43cc-8ab2-cf7a76ff5242", event.ID)
}

func TestHasAnyRole(t *testing.T) {
	assert.True(t, HasAnyRole([]string{"event-publisher"}, RoleEventPublisher, RoleAdmin))
	assert.False(t, HasAnyRole([]string{"reader"}, RoleEventPublisher))
	assert.True(t, IsValidRole("admin"))
	assert.False(t, IsValidRole("root"))
}
