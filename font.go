package main

import (
	"bytes"
	"log"

	text "github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	hudFont   text.Face
	labelFont text.Face
	debugFont text.Face
)

func initFont() {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		log.Fatalf("failed to parse font: %v", err)
	}
	hudFont = &text.GoTextFace{Source: src, Size: 16}
	labelFont = &text.GoTextFace{Source: src, Size: 12}
	debugFont = &text.GoTextFace{Source: src, Size: 13}
}
