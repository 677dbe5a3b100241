package pagination_test

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lojaops/prestacoes_backend/internal/utils/pagination"
)

func TestCreatedAtToken_RoundTrip(t *testing.T) {
	createdAt := time.Date(2024, 3, 15, 10, 30, 45, 123456789, time.UTC)
	id := "9f1c2b34-0000-4000-8000-000000000001"

	token := pagination.EncodeCreatedAtToken(createdAt, id)
	require.NotEmpty(t, token)

	gotTime, gotID, err := pagination.DecodeCreatedAtToken(token)
	require.NoError(t, err)
	assert.True(t, createdAt.Equal(gotTime))
	assert.Equal(t, id, gotID)
}

func TestDecodeCreatedAtToken_NotBase64(t *testing.T) {
	_, _, err := pagination.DecodeCreatedAtToken("not-valid-base64!!!")
	assert.Error(t, err)
}

func TestDecodeCreatedAtToken_MissingSeparator(t *testing.T) {
	token := base64.StdEncoding.EncodeToString([]byte("2024-03-15T10:30:45Z"))
	_, _, err := pagination.DecodeCreatedAtToken(token)
	assert.Error(t, err)
}

func TestDecodeCreatedAtToken_BadTimestamp(t *testing.T) {
	token := base64.StdEncoding.EncodeToString([]byte("yesterday|some-id"))
	_, _, err := pagination.DecodeCreatedAtToken(token)
	assert.Error(t, err)
}

func TestMultiFieldToken_RoundTrip(t *testing.T) {
	token := pagination.EncodeMultiFieldToken("a", "b", "c")
	fields, err := pagination.DecodeMultiFieldToken(token)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, fields)
}
