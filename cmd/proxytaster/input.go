package main

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/August26/proxytaster/internal/model"
	"github.com/August26/proxytaster/internal/parser"
)

var (
	errNoInput   = errors.New("no proxies given: pass a file, a list of proxies or pipe them on stdin")
	errNoProxies = errors.New("no proxies to check")
)

// readProxies reads the proxy list from a single file argument, from the
// arguments themselves or, without arguments, from in.
func readProxies(in io.Reader, args []string) ([]model.ProxyAddress, error) {
	if len(args) == 1 && isFile(args[0]) {
		return parser.LoadFromFile(args[0])
	}
	if len(args) > 0 {
		return parser.ParseList(strings.Join(args, "\n")), nil
	}

	if f, ok := in.(*os.File); ok {
		fi, err := f.Stat()
		if err != nil || fi.Mode()&os.ModeCharDevice != 0 {
			return nil, errNoInput
		}
	}
	return parser.LoadFromReader(in)
}

func isFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}
