package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	cursor := Cursor{
		Date:      time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC),
		CreatedAt: time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC),
		ID:        "5f0c8f5e-8b1f-4a52-9d0a-6a3c8e1f2b11",
	}

	token := EncodeToken(cursor)
	assert.NotEmpty(t, token, "Token should not be empty")

	decoded, err := DecodeToken(token)
	require.NoError(t, err, "Decoding should not return an error")
	assert.True(t, cursor.Date.Equal(decoded.Date))
	assert.True(t, cursor.CreatedAt.Equal(decoded.CreatedAt))
	assert.Equal(t, cursor.ID, decoded.ID)
}

func TestDecodeToken_Invalid(t *testing.T) {
	_, err := DecodeToken("not base64!!")
	assert.Error(t, err)

	_, err = DecodeToken(EncodeToken(Cursor{})[:4])
	assert.Error(t, err)
}

func TestCursor_Before(t *testing.T) {
	day := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	at := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	c := Cursor{Date: day, CreatedAt: at, ID: "m"}

	assert.True(t, c.Before(day.AddDate(0, 0, -1), at.Add(time.Hour), "z"))
	assert.False(t, c.Before(day.AddDate(0, 0, 1), at, "a"))
	assert.True(t, c.Before(day, at.Add(-time.Second), "z"))
	assert.True(t, c.Before(day, at, "a"))
	assert.False(t, c.Before(day, at, "m"))
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 50, ClampLimit(0, 50, 200))
	assert.Equal(t, 200, ClampLimit(1000, 50, 200))
	assert.Equal(t, 10, ClampLimit(10, 50, 200))
}
