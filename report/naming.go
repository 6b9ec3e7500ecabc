/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package report

import "fmt"

// Artifact extensions.
const (
	ExtCSV = "csv"
	ExtPDF = "pdf"
)

// FileName builds "<prefix>-<start>-to-<end>.<ext>" from the literal date strings.
func FileName(prefix, start, end, ext string) string {
	return fmt.Sprintf("%s-%s-to-%s.%s", prefix, start, end, ext)
}
