package color

import "fmt"

const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Unbold = "\033[22m"
)

// Bg returns the 24-bit background escape for c.
func Bg(c RGB) string {
	return fmt.Sprintf("\033[48;2;%d;%d;%dm", c.R, c.G, c.B)
}

// Fg returns the 24-bit foreground escape for c.
func Fg(c RGB) string {
	return fmt.Sprintf("\033[38;2;%d;%d;%dm", c.R, c.G, c.B)
}
