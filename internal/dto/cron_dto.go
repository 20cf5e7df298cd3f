package dto

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"croncommander/internal/service"
)

// ListCronsRequest represents request for the schedule table. Query: locale, filter.
type ListCronsRequest struct {
	// No body fields
}

// ListCronsResponse is the rendered table plus the token for the next toggle
type ListCronsResponse struct {
	service.Table
	Token string `json:"token"`
}

// ToggleCronRequest is posted by the admin page, either as JSON or form-encoded
type ToggleCronRequest struct {
	Hook      string    `json:"hook" form:"hook"`
	Timestamp Timestamp `json:"timestamp" form:"timestamp"`
	Token     string    `json:"token" form:"token"`

	// Nonce is accepted in place of Token for clients that post the field under that name
	Nonce string `json:"nonce" form:"nonce"`
}

// TokenValue returns whichever of Token and Nonce was sent
func (r ToggleCronRequest) TokenValue() string {
	if r.Token != "" {
		return r.Token
	}
	return r.Nonce
}

// Timestamp keeps the raw value so parse failures surface as invalid input
// after authorization, not as binding errors. JSON numbers and strings are both accepted.
type Timestamp string

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Timestamp(s)
		return nil
	}

	*t = Timestamp(data)
	return nil
}

// Int64 parses the timestamp as unix seconds
func (t Timestamp) Int64() (int64, bool) {
	v, err := strconv.ParseInt(strings.TrimSpace(string(t)), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
