package docxfill

import (
	"bytes"
	"errors"
	"io"
	"strings"
)

func readerBytes(rdr io.ReadCloser) ([]byte, error) {
	if rdr == nil {
		return nil, errors.New("can't read bytes from empty reader")
	}

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(rdr); err != nil {
		_ = rdr.Close()
		return nil, err
	}

	if err := rdr.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Is slice contains item
func inSlice(a string, slice []string) bool {
	for _, b := range slice {
		if a == b {
			return true
		}
	}
	return false
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Escape character data for w:t contents
func escapeText(buf []byte) []byte {
	return []byte(textEscaper.Replace(string(buf)))
}

// Word trims leading/trailing spaces of w:t without xml:space="preserve"
func needsPreserve(buf []byte) bool {
	if len(buf) == 0 {
		return false
	}
	return isSpace(buf[0]) || isSpace(buf[len(buf)-1])
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}
