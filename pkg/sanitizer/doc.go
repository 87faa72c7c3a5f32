// Package sanitizer normalizes free-text client input before validation and storage.
//
// Normalization is idempotent: applying it twice yields the same result.
// Whitespace runs collapse to a single space and leading or trailing space is trimmed.
package sanitizer
