package client

import gonanoid "github.com/matoous/go-nanoid/v2"

const (
	clientIDPrefix   = "client-"
	clientIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	clientIDLength   = 8
)

// NewClientID returns a random id of the form client-xxxxxxxx (base36).
func NewClientID() (string, error) {
	suffix, err := gonanoid.Generate(clientIDAlphabet, clientIDLength)
	if err != nil {
		return "", err
	}
	return clientIDPrefix + suffix, nil
}
