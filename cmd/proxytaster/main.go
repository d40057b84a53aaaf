// Package main provides the entry point for the proxytaster CLI.
//
// proxytaster checks a list of proxies, finds out which of HTTP, HTTPS,
// SOCKS4 and SOCKS5 each one speaks and prints the ones that work.
//
// Usage:
//
//	proxytaster proxies.txt
//	proxytaster 1.2.3.4:8080 socks5://5.6.7.8:1080
//	cat proxies.txt | proxytaster -p socks5 -c US,DE -o good.txt
//
// See --help for all available options.
package main

func main() {
	Execute()
}
