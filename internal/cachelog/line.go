package cachelog

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/suykerbuyk/aiscope/internal/score"
)

const fieldCount = 4

// FormatLine encodes rec as content_hash \t filename \t timestamp \t result_json.
func FormatLine(rec Record) (string, error) {
	if !isLowerHex(rec.ContentHash) {
		return "", fmt.Errorf("content hash %q is not lowercase hex", rec.ContentHash)
	}
	if rec.Filename == "" || strings.ContainsAny(rec.Filename, "\t\r\n") {
		return "", fmt.Errorf("filename %q is empty or contains tab/newline", rec.Filename)
	}
	if !utf8.ValidString(rec.Result.Text) {
		return "", fmt.Errorf("result text for %s is not valid UTF-8", rec.Filename)
	}
	data, err := json.Marshal(rec.Result)
	if err != nil {
		return "", fmt.Errorf("marshal result: %w", err)
	}
	return strings.Join([]string{
		rec.ContentHash,
		rec.Filename,
		strconv.FormatInt(rec.Timestamp, 10),
		string(data),
	}, "\t"), nil
}

// ParseLine decodes one log line. Errors are *MalformedRecordError without
// path or line number; Log.Each fills those in.
func ParseLine(line string) (Record, error) {
	parts := strings.Split(line, "\t")
	if len(parts) != fieldCount {
		return Record{}, &MalformedRecordError{
			Reason: fmt.Sprintf("want %d tab-separated fields, got %d", fieldCount, len(parts)),
		}
	}
	if !isLowerHex(parts[0]) {
		return Record{}, &MalformedRecordError{Reason: fmt.Sprintf("content hash %q is not lowercase hex", parts[0])}
	}
	if parts[1] == "" {
		return Record{}, &MalformedRecordError{Reason: "empty filename"}
	}
	ts, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return Record{}, &MalformedRecordError{Reason: "bad timestamp", Err: err}
	}
	var res score.Result
	if err := json.Unmarshal([]byte(parts[3]), &res); err != nil {
		return Record{}, &MalformedRecordError{Reason: "bad result json", Err: err}
	}
	return Record{
		ContentHash: parts[0],
		Filename:    parts[1],
		Timestamp:   ts,
		Result:      res,
	}, nil
}

func isLowerHex(s string) bool {
	if s == "" || strings.ToLower(s) != s {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
