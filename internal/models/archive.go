package models

import "strings"

// Archive is the document package returned by the generation function.
type Archive struct {
	Filename    string
	ContentType string
	Data        []byte
	// RequestID correlates the archive with the generation request in the logs.
	RequestID string
}

// ArchiveFilename is the name used when the generation function does not provide one.
func ArchiveFilename(contractNumber string) string {
	return "Договор_пакет_" + strings.ReplaceAll(contractNumber, "/", "-") + ".zip"
}
