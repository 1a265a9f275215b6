package tasks_test

import (
	"testing"

	tasks "github.com/goliatone/go-tasks"
	"github.com/stretchr/testify/assert"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{
			name:     "Valid password",
			password: "securePassword123!",
			wantErr:  false,
		},
		{
			name:     "Empty password",
			password: "",
			wantErr:  true, // bcrypt can hash empty strings!
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := tasks.HashPassword(tt.password)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.NotEmpty(t, hash)

			err = tasks.ComparePasswordAndHash(tt.password, hash)
			assert.NoError(t, err)
		})
	}
}

func TestHashPasswordProducesDistinctHashes(t *testing.T) {
	first, err := tasks.HashPassword("samePassword")
	assert.NoError(t, err)

	second, err := tasks.HashPassword("samePassword")
	assert.NoError(t, err)

	// Each hash embeds a fresh salt.
	assert.NotEqual(t, first, second)

	assert.NoError(t, tasks.ComparePasswordAndHash("samePassword", first))
	assert.NoError(t, tasks.ComparePasswordAndHash("samePassword", second))
}

func TestComparePasswordAndHash(t *testing.T) {
	password := "testPassword123!"
	hash, err := tasks.HashPassword(password)
	assert.NoError(t, err)

	tests := []struct {
		name     string
		password string
		hash     string
		wantErr  bool
	}{
		{
			name:     "Matching password",
			password: password,
			hash:     hash,
			wantErr:  false,
		},
		{
			name:     "Wrong password",
			password: "wrongPassword",
			hash:     hash,
			wantErr:  true,
		},
		{
			name:     "Invalid hash",
			password: password,
			hash:     "not-a-bcrypt-hash",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tasks.ComparePasswordAndHash(tt.password, tt.hash)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
