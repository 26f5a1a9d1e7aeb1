package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/richardlehane/mscfb"
	"golang.org/x/text/encoding/unicode"
)

// Outlook .msg files are compound files whose top-level property streams are
// named __substg1.0_<tag><type>. Type 001F is UTF-16LE, 001E is 8-bit.
const (
	msgPropSubject     = "0037"
	msgPropSenderName  = "0C1A"
	msgPropSenderEmail = "0C1F"
	msgPropBody        = "1000"
)

// extractMSG returns "Subject: ...\nFrom: ...\nBody: ..." for an Outlook message.
func extractMSG(data []byte) (string, error) {
	doc, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("open msg: %w", err)
	}

	props := map[string]string{}
	for entry, nerr := doc.Next(); ; entry, nerr = doc.Next() {
		if errors.Is(nerr, io.EOF) {
			break
		}
		if nerr != nil {
			return "", fmt.Errorf("read msg entry: %w", nerr)
		}
		if !isTopLevelMessageStream(entry.Path) {
			continue
		}
		tag, utf16, ok := parsePropertyStreamName(entry.Name)
		if !ok {
			continue
		}
		raw, rerr := io.ReadAll(entry)
		if rerr != nil {
			return "", fmt.Errorf("read %s: %w", entry.Name, rerr)
		}
		value, derr := decodeProperty(raw, utf16)
		if derr != nil {
			return "", fmt.Errorf("decode %s: %w", entry.Name, derr)
		}
		props[tag] = value
	}

	if len(props) == 0 {
		return "", fmt.Errorf("no message properties found")
	}

	sender := props[msgPropSenderName]
	if email := props[msgPropSenderEmail]; email != "" {
		if sender == "" {
			sender = email
		} else {
			sender = fmt.Sprintf("%s <%s>", sender, email)
		}
	}

	return fmt.Sprintf("Subject: %s\nFrom: %s\nBody: %s",
		props[msgPropSubject], sender, props[msgPropBody]), nil
}

// isTopLevelMessageStream excludes streams nested in attachment, recipient and
// named-property storages.
func isTopLevelMessageStream(path []string) bool {
	for _, p := range path {
		if strings.HasPrefix(p, "__attach_") ||
			strings.HasPrefix(p, "__recip_") ||
			strings.HasPrefix(p, "__nameid_") {
			return false
		}
	}
	return true
}

func parsePropertyStreamName(name string) (tag string, utf16 bool, ok bool) {
	const prefix = "__substg1.0_"
	if !strings.HasPrefix(name, prefix) || len(name) != len(prefix)+8 {
		return "", false, false
	}
	id := strings.ToUpper(name[len(prefix):])
	switch id[4:] {
	case "001F":
		return id[:4], true, true
	case "001E":
		return id[:4], false, true
	default:
		return "", false, false
	}
}

func decodeProperty(raw []byte, utf16 bool) (string, error) {
	if !utf16 {
		return strings.TrimRight(strings.ToValidUTF8(string(raw), "�"), "\x00"), nil
	}
	out, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(out), "\x00"), nil
}
