package model_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"student-directory/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordID_UnmarshalStringAndNumber(t *testing.T) {
	var recs []model.Record
	body := `[{"id":"7","name":"Ana"},{"id":12,"name":"Bo"},{"id":null,"name":"Cy"}]`
	require.NoError(t, json.Unmarshal([]byte(body), &recs))

	require.Len(t, recs, 3)
	assert.Equal(t, model.RecordID("7"), recs[0].ID)
	assert.Equal(t, model.RecordID("12"), recs[1].ID)
	assert.Equal(t, model.RecordID(""), recs[2].ID)

	b, err := json.Marshal(recs[1])
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"12","name":"Bo","avatar":"","createdAt":""}`, string(b))
}

func TestRecordID_UnmarshalRejectsObjects(t *testing.T) {
	var r model.Record
	require.Error(t, json.Unmarshal([]byte(`{"id":{"x":1}}`), &r))
}

func TestPlaceholderAvatar_Deterministic(t *testing.T) {
	a := model.PlaceholderAvatar("Ana")
	assert.Equal(t, a, model.PlaceholderAvatar("Ana"))
	assert.Equal(t, "https://ui-avatars.com/api/?name=Ana", a)
	assert.Equal(t, "https://ui-avatars.com/api/?name=Ana+Maria", model.PlaceholderAvatar(" Ana Maria "))
	assert.NotEqual(t, a, model.PlaceholderAvatar("Bo"))
}

func TestRecord_DisplayAvatar(t *testing.T) {
	assert.Equal(t, "https://example.com/a.png", model.Record{Name: "Ana", Avatar: "https://example.com/a.png"}.DisplayAvatar())
	assert.Equal(t, model.PlaceholderAvatar("Ana"), model.Record{Name: "Ana"}.DisplayAvatar())
}

func TestTimestamp_UTCMillis(t *testing.T) {
	now := time.Date(2024, 3, 5, 10, 4, 5, 123456789, time.FixedZone("WAT", 3600))
	assert.Equal(t, "2024-03-05T09:04:05.123Z", model.Timestamp(now))
}

func TestDraft_WithDefaults(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	d := model.Draft{Name: "Ana"}.WithDefaults(now)
	assert.Equal(t, model.PlaceholderAvatar("Ana"), d.Avatar)
	assert.Equal(t, "2024-01-02T03:04:05.000Z", d.CreatedAt)

	kept := model.Draft{Name: "Ana", Avatar: "https://example.com/a.png", CreatedAt: "2020-01-01T00:00"}.WithDefaults(now)
	assert.Equal(t, "https://example.com/a.png", kept.Avatar)
	assert.Equal(t, "2020-01-01T00:00", kept.CreatedAt)
}

func TestDraft_CleanAndHasName(t *testing.T) {
	d := model.Draft{Name: "  Ana ", Avatar: " https://example.com/a.png ", CreatedAt: " "}.Clean()
	assert.Equal(t, model.Draft{Name: "Ana", Avatar: "https://example.com/a.png"}, d)
	assert.True(t, d.HasName())
	assert.False(t, model.Draft{Name: "   "}.HasName())
}

func TestDraft_Validate(t *testing.T) {
	tests := []struct {
		name       string
		draft      model.Draft
		wantFields []string
	}{
		{name: "name only", draft: model.Draft{Name: "Ana"}},
		{name: "empty name is not a validation error", draft: model.Draft{}},
		{name: "full", draft: model.Draft{Name: "Ana", Avatar: "https://example.com/a.png", CreatedAt: "2024-01-02T03:04:05.000Z"}},
		{name: "datetime-local", draft: model.Draft{Name: "Ana", CreatedAt: "2024-01-02T03:04"}},
		{name: "date only", draft: model.Draft{Name: "Ana", CreatedAt: "2024-01-02"}},
		{name: "seconds without fraction", draft: model.Draft{Name: "Ana", CreatedAt: "2024-01-02T03:04:05Z"}},
		{name: "bad avatar", draft: model.Draft{Name: "Ana", Avatar: "not-a-url"}, wantFields: []string{"avatar"}},
		{name: "bad createdAt", draft: model.Draft{Name: "Ana", CreatedAt: "yesterday"}, wantFields: []string{"createdAt"}},
		{name: "both bad", draft: model.Draft{Name: "Ana", Avatar: "nope", CreatedAt: "nope"}, wantFields: []string{"avatar", "createdAt"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draft.Validate()
			if len(tt.wantFields) == 0 {
				require.NoError(t, err)
				return
			}

			var verr *model.ValidationError
			require.True(t, errors.As(err, &verr), "want *ValidationError, got %v", err)
			got := make([]string, 0, len(verr.Fields))
			for _, f := range verr.Fields {
				got = append(got, f.Field)
			}
			assert.ElementsMatch(t, tt.wantFields, got)
		})
	}
}
