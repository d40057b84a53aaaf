package model

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseProtocol(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in      string
		want    Protocol
		wantErr bool
	}{
		{"http", ProtocolHTTP, false},
		{"HTTPS", ProtocolHTTPS, false},
		{" socks4 ", ProtocolSOCKS4, false},
		{"Socks5", ProtocolSOCKS5, false},
		{"socks5h", "", true},
		{"", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseProtocol(tc.in)
			if tc.wantErr {
				if !errors.Is(err, ErrUnknownProtocol) {
					t.Fatalf("ParseProtocol(%q) err = %v, want ErrUnknownProtocol", tc.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if got != tc.want {
				t.Fatalf("ParseProtocol(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseProtocolsDeduplicates(t *testing.T) {
	got, err := ParseProtocols([]string{"socks5", "HTTP", "socks5"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := []Protocol{ProtocolSOCKS5, ProtocolHTTP}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestTargetScheme(t *testing.T) {
	want := map[Protocol]string{
		ProtocolHTTP:   "http",
		ProtocolHTTPS:  "https",
		ProtocolSOCKS4: "https",
		ProtocolSOCKS5: "https",
	}
	for p, scheme := range want {
		if got := p.TargetScheme(); got != scheme {
			t.Errorf("%s.TargetScheme() = %q, want %q", p, got, scheme)
		}
	}
}

func TestSplitScheme(t *testing.T) {
	p, rest, ok := SplitScheme("SOCKS4://1.2.3.4:1080")
	if !ok || p != ProtocolSOCKS4 || rest != "1.2.3.4:1080" {
		t.Fatalf("got (%q, %q, %v)", p, rest, ok)
	}

	if _, rest, ok := SplitScheme("ftp://1.2.3.4:21"); ok || rest != "ftp://1.2.3.4:21" {
		t.Fatalf("ftp scheme should not split, got (%q, %v)", rest, ok)
	}

	if _, _, ok := SplitScheme("1.2.3.4:80"); ok {
		t.Fatal("bare address should not split")
	}
}

func TestConfigCandidates(t *testing.T) {
	t.Parallel()

	t.Run("default precedence", func(t *testing.T) {
		t.Parallel()
		got := DefaultConfig().Candidates()
		want := []Protocol{ProtocolSOCKS5, ProtocolSOCKS4, ProtocolHTTPS, ProtocolHTTP}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("got %v want %v", got, want)
		}
	})

	t.Run("subset keeps relative order", func(t *testing.T) {
		t.Parallel()
		cfg := DefaultConfig()
		cfg.Protocols = []Protocol{ProtocolHTTP, ProtocolSOCKS4}
		got := cfg.Candidates()
		want := []Protocol{ProtocolSOCKS4, ProtocolHTTP}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("got %v want %v", got, want)
		}
	})

	t.Run("candidates missing from precedence go last", func(t *testing.T) {
		t.Parallel()
		cfg := Config{
			Protocols:  []Protocol{ProtocolHTTP, ProtocolSOCKS5},
			Precedence: []Protocol{ProtocolSOCKS5},
		}
		got := cfg.Candidates()
		want := []Protocol{ProtocolSOCKS5, ProtocolHTTP}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("got %v want %v", got, want)
		}
	})
}

func TestConfigNormalize(t *testing.T) {
	cfg := Config{Workers: -3}.Normalize()
	if cfg.Workers != 1 {
		t.Errorf("Workers = %d, want 1", cfg.Workers)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, DefaultTimeout)
	}
	if cfg.Endpoint != DefaultEndpoint {
		t.Errorf("Endpoint = %q", cfg.Endpoint)
	}
	if len(cfg.Protocols) != len(AllProtocols) {
		t.Errorf("Protocols = %v", cfg.Protocols)
	}

	empty := Config{Protocols: []Protocol{}}.Normalize()
	if len(empty.Protocols) != 0 {
		t.Errorf("explicit empty protocol set was replaced: %v", empty.Protocols)
	}
}

func TestWorkedProxyString(t *testing.T) {
	w := &WorkedProxy{Status: 200, URL: "socks5://1.2.3.4:1080", Country: "US"}
	if got := w.String(); got != "200 socks5://1.2.3.4:1080 US" {
		t.Fatalf("String() = %q", got)
	}

	w = &WorkedProxy{Status: 403, URL: "http://1.2.3.4:80"}
	if w.HasCountry() {
		t.Fatal("HasCountry() = true for empty country")
	}
	if got := w.String(); got != "403 http://1.2.3.4:80 -" {
		t.Fatalf("String() = %q", got)
	}
}
