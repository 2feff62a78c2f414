package validation_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/blogapi/internal/domain"
	"github.com/mkrupp/blogapi/internal/infra/validation"
)

const personSchema = `{
	"type": "object",
	"required": ["name", "email"],
	"properties": {
		"name": {"type": "string", "minLength": 2},
		"email": {"type": "string", "format": "email"}
	}
}`

type person struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func TestSchema_Decode(t *testing.T) {
	t.Parallel()

	schema := validation.MustCompile("person.json", personSchema)

	tests := []struct {
		name        string
		body        string
		wantErr     bool
		wantDetails []string
	}{
		{name: "valid", body: `{"name":"Ada","email":"ada@example.com"}`},
		{name: "malformed", body: `{"name":`, wantErr: true, wantDetails: []string{"malformed JSON body"}},
		{name: "short name", body: `{"name":"A","email":"ada@example.com"}`, wantErr: true},
		{name: "bad email", body: `{"name":"Ada","email":"not-an-email"}`, wantErr: true},
		{name: "missing field", body: `{"name":"Ada"}`, wantErr: true},
		{name: "wrong type", body: `[]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var p person

			err := schema.Decode(strings.NewReader(tt.body), &p)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, person{Name: "Ada", Email: "ada@example.com"}, p)

				return
			}

			require.ErrorIs(t, err, domain.ErrInvalidPayload)

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.NotEmpty(t, verr.Details)

			if tt.wantDetails != nil {
				assert.Equal(t, tt.wantDetails, verr.Details)
			}
		})
	}
}

func TestSchema_DetailsNameLocation(t *testing.T) {
	t.Parallel()

	schema := validation.MustCompile("person.json", personSchema)

	err := schema.Validate([]byte(`{"name":"A","email":"ada@example.com"}`))

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Details, 1)
	assert.True(t, strings.HasPrefix(verr.Details[0], "name: "), verr.Details[0])
}

func TestCompile_Invalid(t *testing.T) {
	t.Parallel()

	_, err := validation.Compile("broken.json", `{"type": 5}`)
	require.Error(t, err)

	assert.Panics(t, func() { validation.MustCompile("broken.json", `{`) })
}
