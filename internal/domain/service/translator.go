package service

import "context"

// AutoDetect lets the translator detect the source language
const AutoDetect = "auto"

// Translator translates natural-language text between languages
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}
