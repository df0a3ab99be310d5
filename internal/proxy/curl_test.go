package proxy

import (
	"testing"
)

func TestParseCurl_BasicPost(t *testing.T) {
	d, err := ParseCurl(`curl -X POST https://example.com/api -H "X-Test: 1" -d '{"a":1}'`)
	if err != nil {
		t.Fatalf("Unexpected parse error: %v", err)
	}

	if d.Method != "POST" {
		t.Errorf("Expected method POST, got %q", d.Method)
	}
	if d.URL != "https://example.com/api" {
		t.Errorf("Expected URL https://example.com/api, got %q", d.URL)
	}
	if d.Headers["X-Test"] != "1" {
		t.Errorf("Expected header X-Test: 1, got %q", d.Headers["X-Test"])
	}
	if d.Body != `{"a":1}` {
		t.Errorf("Expected body {\"a\":1}, got %q", d.Body)
	}
}

func TestParseCurl_MethodDefaults(t *testing.T) {
	tests := []struct {
		name     string
		command  string
		expected string
	}{
		{"Bare URL is GET", "curl https://example.com", "GET"},
		{"Data implies POST", "curl https://example.com -d a=1", "POST"},
		{"Explicit method wins", "curl -X PUT https://example.com -d a=1", "PUT"},
		{"Lowercase method uppercased", "curl -X delete https://example.com", "DELETE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseCurl(tt.command)
			if err != nil {
				t.Fatalf("Unexpected parse error: %v", err)
			}
			if d.Method != tt.expected {
				t.Errorf("Expected method %q, got %q", tt.expected, d.Method)
			}
		})
	}
}

func TestParseCurl_BasicAuth(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		user     string
		password string
	}{
		{"User and password", "user:pass", "user", "pass"},
		{"User only", "user", "user", ""},
		{"Password with colon", "user:pa:ss", "user", "pa:ss"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseCurl("curl -u " + tt.raw + " https://example.com")
			if err != nil {
				t.Fatalf("Unexpected parse error: %v", err)
			}
			if !d.HasAuth {
				t.Fatal("Expected HasAuth to be set")
			}
			if d.Username != tt.user || d.Password != tt.password {
				t.Errorf("Expected credentials %q/%q, got %q/%q", tt.user, tt.password, d.Username, d.Password)
			}
		})
	}
}

func TestParseCurl_SplitCredentials(t *testing.T) {
	user, pass := SplitCredentials("user:pass")
	if user != "user" || pass != "pass" {
		t.Errorf("Expected user/pass, got %q/%q", user, pass)
	}

	user, pass = SplitCredentials("user")
	if user != "user" || pass != "" {
		t.Errorf("Expected user with empty password, got %q/%q", user, pass)
	}
}

func TestParseCurl_Cookie(t *testing.T) {
	d, err := ParseCurl(`curl -b "session=abc; theme=dark" https://example.com`)
	if err != nil {
		t.Fatalf("Unexpected parse error: %v", err)
	}
	if d.Cookie != "session=abc; theme=dark" {
		t.Errorf("Expected cookie string, got %q", d.Cookie)
	}
}

func TestParseCurl_GetMovesDataToQuery(t *testing.T) {
	d, err := ParseCurl("curl -G https://example.com/search -d q=images -d page=2")
	if err != nil {
		t.Fatalf("Unexpected parse error: %v", err)
	}
	if d.Method != "GET" {
		t.Errorf("Expected GET, got %q", d.Method)
	}
	if d.Body != "" {
		t.Errorf("Expected empty body, got %q", d.Body)
	}
	if d.Query.Get("q") != "images" || d.Query.Get("page") != "2" {
		t.Errorf("Expected data in query parameters, got %v", d.Query)
	}
}

func TestParseCurl_MultipleDataJoined(t *testing.T) {
	d, err := ParseCurl("curl https://example.com -d a=1 -d b=2")
	if err != nil {
		t.Fatalf("Unexpected parse error: %v", err)
	}
	if d.Body != "a=1&b=2" {
		t.Errorf("Expected joined body a=1&b=2, got %q", d.Body)
	}
}

func TestParseCurl_LongFlagsWithEquals(t *testing.T) {
	d, err := ParseCurl(`curl --request=PATCH --url=https://example.com --header="X-A: b"`)
	if err != nil {
		t.Fatalf("Unexpected parse error: %v", err)
	}
	if d.Method != "PATCH" {
		t.Errorf("Expected PATCH, got %q", d.Method)
	}
	if d.URL != "https://example.com" {
		t.Errorf("Expected URL from --url, got %q", d.URL)
	}
	if d.Headers["X-A"] != "b" {
		t.Errorf("Expected header X-A: b, got %q", d.Headers["X-A"])
	}
}

func TestParseCurl_IgnoresBooleanAndUnknownFlags(t *testing.T) {
	d, err := ParseCurl("curl -s -L --compressed --some-future-flag https://example.com")
	if err != nil {
		t.Fatalf("Unexpected parse error: %v", err)
	}
	if d.URL != "https://example.com" {
		t.Errorf("Expected URL to survive flag noise, got %q", d.URL)
	}
}

func TestParseCurl_Failures(t *testing.T) {
	tests := []struct {
		name    string
		command string
	}{
		{"Empty command", ""},
		{"Only the word curl", "curl"},
		{"No URL", "curl -X POST -H 'X: 1'"},
		{"Dangling flag value", "curl https://example.com -H"},
		{"Unbalanced quote", `curl https://example.com -H "X: 1`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseCurl(tt.command); err == nil {
				t.Errorf("Expected parse error for %q", tt.command)
			}
		})
	}
}

func TestParseCurl_UserAgentAndReferer(t *testing.T) {
	d, err := ParseCurl(`curl -A "test-agent/1.0" -e "https://referrer.example" https://example.com`)
	if err != nil {
		t.Fatalf("Unexpected parse error: %v", err)
	}
	if d.Headers["User-Agent"] != "test-agent/1.0" {
		t.Errorf("Expected User-Agent header, got %q", d.Headers["User-Agent"])
	}
	if d.Headers["Referer"] != "https://referrer.example" {
		t.Errorf("Expected Referer header, got %q", d.Headers["Referer"])
	}
}

func TestParseCurl_FormFields(t *testing.T) {
	d, err := ParseCurl("curl https://example.com -F name=bob -F role=admin")
	if err != nil {
		t.Fatalf("Unexpected parse error: %v", err)
	}
	if d.Method != "POST" {
		t.Errorf("Expected POST for form submission, got %q", d.Method)
	}
	if d.Body != "name=bob&role=admin" {
		t.Errorf("Expected form body, got %q", d.Body)
	}
	if d.Headers["Content-Type"] != "application/x-www-form-urlencoded" {
		t.Errorf("Expected form content type, got %q", d.Headers["Content-Type"])
	}
}
