package gitrepo

import (
	"fmt"
	"strings"
)

const (
	sshProtocolPrefixConstant           = "ssh://"
	httpsProtocolPrefixConstant         = "https://"
	httpProtocolPrefixConstant          = "http://"
	gitUserPrefixConstant               = "git@"
	sshUserDelimiterConstant            = "@"
	scpPathDelimiterConstant            = ":"
	portDelimiterConstant               = ":"
	pathSeparatorConstant               = "/"
	gitSuffixConstant                   = ".git"
	remoteURLParseErrorTemplateConstant = "%s: %q"
	invalidRemoteURLMessageConstant     = "invalid remote url"
)

// RemoteProtocol enumerates supported git remote protocols.
type RemoteProtocol string

// Supported remote protocols.
const (
	RemoteProtocolSSH   RemoteProtocol = RemoteProtocol("ssh")
	RemoteProtocolHTTPS RemoteProtocol = RemoteProtocol("https")
)

// RemoteURL represents a structured git remote URL.
type RemoteURL struct {
	Protocol       RemoteProtocol
	Host           string
	NamespacedPath string
}

// RemoteURLParseError indicates a remote string could not be parsed.
type RemoteURLParseError struct {
	Input string
}

// Error describes the parse failure.
func (failure RemoteURLParseError) Error() string {
	return fmt.Sprintf(remoteURLParseErrorTemplateConstant, invalidRemoteURLMessageConstant, failure.Input)
}

// ParseRemoteURL parses scp-like, ssh scheme, and https remote URLs.
func ParseRemoteURL(rawURL string) (RemoteURL, error) {
	trimmedURL := strings.TrimSpace(rawURL)

	switch {
	case strings.HasPrefix(trimmedURL, sshProtocolPrefixConstant):
		return parseSchemeRemoteURL(trimmedURL, sshProtocolPrefixConstant, RemoteProtocolSSH)
	case strings.HasPrefix(trimmedURL, httpsProtocolPrefixConstant):
		return parseSchemeRemoteURL(trimmedURL, httpsProtocolPrefixConstant, RemoteProtocolHTTPS)
	case strings.HasPrefix(trimmedURL, httpProtocolPrefixConstant):
		return parseSchemeRemoteURL(trimmedURL, httpProtocolPrefixConstant, RemoteProtocolHTTPS)
	case strings.Contains(trimmedURL, sshUserDelimiterConstant) && strings.Contains(trimmedURL, scpPathDelimiterConstant):
		return parseSCPRemoteURL(trimmedURL)
	}

	return RemoteURL{}, RemoteURLParseError{Input: rawURL}
}

func parseSCPRemoteURL(trimmedURL string) (RemoteURL, error) {
	_, hostAndPath, userFound := strings.Cut(trimmedURL, sshUserDelimiterConstant)
	if !userFound {
		return RemoteURL{}, RemoteURLParseError{Input: trimmedURL}
	}

	host, namespacedPath, pathFound := strings.Cut(hostAndPath, scpPathDelimiterConstant)
	if !pathFound || len(host) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: trimmedURL}
	}

	normalizedPath := normalizeNamespacedPath(namespacedPath)
	if len(normalizedPath) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: trimmedURL}
	}

	return RemoteURL{Protocol: RemoteProtocolSSH, Host: host, NamespacedPath: normalizedPath}, nil
}

func parseSchemeRemoteURL(trimmedURL string, protocolPrefix string, protocol RemoteProtocol) (RemoteURL, error) {
	remainder := strings.TrimPrefix(trimmedURL, protocolPrefix)
	remainder = strings.TrimPrefix(remainder, gitUserPrefixConstant)

	hostWithPort, namespacedPath, pathFound := strings.Cut(remainder, pathSeparatorConstant)
	if !pathFound || len(hostWithPort) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: trimmedURL}
	}

	host := hostWithPort
	if hostName, _, portFound := strings.Cut(hostWithPort, portDelimiterConstant); portFound {
		host = hostName
	}
	if len(host) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: trimmedURL}
	}

	normalizedPath := normalizeNamespacedPath(namespacedPath)
	if len(normalizedPath) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: trimmedURL}
	}

	return RemoteURL{Protocol: protocol, Host: host, NamespacedPath: normalizedPath}, nil
}

func normalizeNamespacedPath(rawPath string) string {
	normalizedPath := strings.Trim(strings.TrimSpace(rawPath), pathSeparatorConstant)
	normalizedPath = strings.TrimSuffix(normalizedPath, gitSuffixConstant)
	return strings.Trim(normalizedPath, pathSeparatorConstant)
}
