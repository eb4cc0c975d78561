package extraction

import "os"

func writeFile(path string) error {
	return os.WriteFile(path, []byte("1\n00:00:01,000 --> 00:00:02,000\nhello\n"), 0o644)
}
