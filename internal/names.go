package internal

import (
	"fmt"
	"os"
	"strings"
)

// ResolveUsername qualifies a bare username with the local hostname, the form
// expected by the local group APIs. Already qualified names are returned as-is.
func ResolveUsername(username string) (string, error) {
	if strings.ContainsRune(username, '\\') {
		return username, nil
	}
	hostname, err := os.Hostname()
	if err != nil {
		return "", fmt.Errorf("unable to determine hostname: %w", err)
	}
	return fmt.Sprintf(`%s\%s`, hostname, username), nil
}

// SplitDomainAndName splits DOMAIN\name. The domain is empty for bare names.
func SplitDomainAndName(domainAndName string) (string, string) {
	split := strings.SplitN(domainAndName, `\`, 2)
	if len(split) > 1 {
		return split[0], split[1]
	}
	return "", split[0]
}
