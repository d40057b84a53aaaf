package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/August26/proxytaster/internal/model"
)

// MaxPort is the exclusive upper bound for proxy ports. 65535 itself is rejected.
const MaxPort = 65535

var (
	// ErrMalformedAddress is returned when no numeric port can be extracted.
	ErrMalformedAddress = errors.New("malformed proxy address")

	// ErrPortOutOfRange is returned when the port is not below MaxPort.
	ErrPortOutOfRange = errors.New("proxy port out of range")
)

// ParsePort extracts the port from a proxy address. It supports:
//
//	host:port
//	user:pass@host:port
//
// The port is always the second ':' separated field of the host part, which
// means anything after it is ignored.
func ParsePort(address string) (int, error) {
	parts := strings.Split(address, "@")

	var hostport string
	switch len(parts) {
	case 1:
		hostport = parts[0]
	case 2:
		hostport = parts[1]
	default:
		return 0, fmt.Errorf("%w: invalid format proxy %q", ErrMalformedAddress, address)
	}

	fields := strings.Split(hostport, ":")
	if len(fields) < 2 {
		return 0, fmt.Errorf("%w: invalid format proxy %q", ErrMalformedAddress, address)
	}

	port, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, fmt.Errorf("%w: port %q of %q is not an integer", ErrMalformedAddress, fields[1], address)
	}
	if port >= MaxPort {
		return 0, fmt.Errorf("%w: port value %d must be in range 0-%d", ErrPortOutOfRange, port, MaxPort)
	}
	return port, nil
}

// LoadFromFile reads a proxy list file. See LoadFromReader for the format.
func LoadFromFile(path string) ([]model.ProxyAddress, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}
	defer f.Close()

	return LoadFromReader(f)
}

// LoadFromReader reads proxies separated by newlines, commas or spaces.
// Empty entries and lines starting with '#' are ignored, duplicates are
// dropped and the first occurrence wins.
func LoadFromReader(r io.Reader) ([]model.ProxyAddress, error) {
	var out []model.ProxyAddress
	seen := make(map[string]struct{})

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		for _, entry := range splitLine(line) {
			pa := parseEntry(entry)
			key := pa.URL()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, pa)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan input: %w", err)
	}
	return out, nil
}

// ParseList parses an inline list such as "1.2.3.4:80 5.6.7.8:1080".
func ParseList(s string) []model.ProxyAddress {
	// strings.Reader never fails.
	out, _ := LoadFromReader(strings.NewReader(s))
	return out
}

// splitLine splits on commas when the line has any, otherwise on whitespace.
func splitLine(line string) []string {
	var fields []string
	if strings.Contains(line, ",") {
		fields = strings.Split(line, ",")
	} else {
		fields = strings.Fields(line)
	}

	out := fields[:0]
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// parseEntry turns one list entry into a ProxyAddress.
//
// Supported:
//  1. ip:port
//  2. user:pass@ip:port
//  3. ip:port:user:pass (rewritten to form 2)
//  4. any of the above prefixed with "http://", "socks5://", ...
//
// Entries that look wrong are kept as they are; they are reported when
// probed.
func parseEntry(entry string) model.ProxyAddress {
	pa := model.ProxyAddress{Address: entry}
	if p, rest, ok := model.SplitScheme(entry); ok {
		pa.Protocol = p
		pa.Address = rest
	}

	if !strings.Contains(pa.Address, "@") {
		if col := strings.Split(pa.Address, ":"); len(col) == 4 {
			pa.Address = col[2] + ":" + col[3] + "@" + col[0] + ":" + col[1]
		}
	}
	return pa
}
