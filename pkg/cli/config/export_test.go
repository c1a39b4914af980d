package config

// Test helpers to set flag-bound fields directly

func (l *Logger) SetForTest(level, format, output string) {
	l.level = level
	l.format = format
	l.output = output
}

func (c *Catalog) SetPathForTest(path string) {
	c.path = path
}
