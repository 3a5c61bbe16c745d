// Package id generates opaque identifiers for requests.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// requestAlphabet avoids characters that need quoting in logs or headers.
	requestAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	requestLength   = 16
	requestPrefix   = "req_"
)

// Request creates a request ID such as "req_4f0c2m9x1kq8zr7a".
//
// Returns an error if the system has insufficient entropy for secure random generation.
func Request() (string, error) {
	id, err := gonanoid.Generate(requestAlphabet, requestLength)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return requestPrefix + id, nil
}

// MustRequest is like Request but panics if ID generation fails.
func MustRequest() string {
	id, err := Request()
	if err != nil {
		panic(fmt.Sprintf("failed to generate request ID: %v", err))
	}
	return id
}
