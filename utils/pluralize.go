package utils

import "fmt"

// Pluralize returns "{count} {word}", adding an "s" unless count is exactly 1.
// Example: Pluralize("Color", 1) = "1 Color", Pluralize("Color", 0) = "0 Colors"
func Pluralize(word string, count int) string {
	if count == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", count, word)
}
