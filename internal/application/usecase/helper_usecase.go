// internal/application/usecase/helper_usecase.go
package usecase

import "strings"

// maskID keeps only the tail of an identifier for logs.
func maskID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return ""
	}
	if len(id) <= 6 {
		return "***"
	}
	return "***" + id[len(id)-6:]
}

