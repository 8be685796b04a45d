package app

import (
	"bufio"
	"os"
	"strings"
)

// DetectDistribution returns <ID><major VERSION_ID> from the first readable
// os-release file, for example "rhel6" or "sles11". It returns "" when none
// can be read.
func DetectDistribution(files ...string) string {
	for _, f := range files {
		fields, err := readOSRelease(f)
		if err != nil {
			continue
		}
		id := strings.ToLower(fields["ID"])
		if id == "" {
			continue
		}
		major, _, _ := strings.Cut(fields["VERSION_ID"], ".")
		return id + major
	}
	return ""
}

func readOSRelease(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fields := make(map[string]string)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		fields[k] = strings.Trim(v, `"'`)
	}
	return fields, sc.Err()
}
