// Package utils provides small parsing helpers for query strings and flags.
package utils
