package cli

import figure "github.com/common-nighthawk/go-figure"

func banner() string {
	return figure.NewFigure("Eskimo", "cybermedium", true).String()
}
