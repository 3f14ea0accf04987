// Package validation provides common validation utilities for the sentinel library.
package validation
