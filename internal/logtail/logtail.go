package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Read returns at most maxLines from the end of the file at path. maxLines
// <= 0 returns the whole file. A missing file yields no lines and no error.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = file.Close() }()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Level extracts the logrus level from a text-formatted line
// (time="..." level=info msg="..."). It returns "" when none is present.
func Level(line string) string {
	for _, field := range strings.Fields(line) {
		if v, ok := strings.CutPrefix(field, "level="); ok {
			return strings.Trim(v, `"`)
		}
	}
	return ""
}

var levelColors = map[string]*color.Color{
	"debug":   color.New(color.FgCyan),
	"info":    color.New(color.FgGreen),
	"warning": color.New(color.FgYellow),
	"error":   color.New(color.FgRed, color.Bold),
	"fatal":   color.New(color.FgRed, color.Bold),
	"panic":   color.New(color.FgRed, color.Bold),
}

// Colorize renders line in the colour of its level. Lines without a level
// are returned unchanged.
func Colorize(line string) string {
	c, ok := levelColors[Level(line)]
	if !ok {
		return line
	}
	return c.Sprint(line)
}
