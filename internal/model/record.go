package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"
)

const placeholderAvatarURL = "https://ui-avatars.com/api/?name="

// TimestampLayout matches the millisecond UTC form browsers emit for ISO 8601.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// RecordID is assigned by the remote collection. Mock APIs emit it either as
// a JSON string or a JSON number, so both decode into the same string form.
type RecordID string

func (id *RecordID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = RecordID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("record id must be a string or number: %w", err)
	}
	*id = RecordID(n.String())
	return nil
}

func (id RecordID) String() string {
	return string(id)
}

type Record struct {
	ID        RecordID `json:"id"`
	Name      string   `json:"name"`
	Avatar    string   `json:"avatar"`
	CreatedAt string   `json:"createdAt"`
}

// DisplayAvatar returns the stored avatar or the generated placeholder.
func (r Record) DisplayAvatar() string {
	if strings.TrimSpace(r.Avatar) != "" {
		return r.Avatar
	}
	return PlaceholderAvatar(r.Name)
}

func PlaceholderAvatar(name string) string {
	return placeholderAvatarURL + url.QueryEscape(strings.TrimSpace(name))
}

func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
