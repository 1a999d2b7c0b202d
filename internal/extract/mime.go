package extract

import (
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DetectMIME picks the type used for extraction. A specific declared type is
// trusted; an empty or generic one is replaced by sniffing the file content.
func DetectMIME(path, declared string) string {
	if mt, _, err := mime.ParseMediaType(declared); err == nil && mt != "" && !isGeneric(mt) {
		return mt
	}
	sniffed, err := mimetype.DetectFile(path)
	if err != nil {
		return strings.TrimSpace(declared)
	}
	mt, _, _ := mime.ParseMediaType(sniffed.String())
	return mt
}

func isGeneric(mt string) bool {
	return mt == "application/octet-stream" || mt == "binary/octet-stream"
}
