// Package proxy parses curl command strings and replays them as outbound
// HTTP requests, relaying the upstream response verbatim.
package proxy

import (
	"fmt"
	"net/url"
	"strings"

	shellwords "github.com/mattn/go-shellwords"
)

// RequestDescriptor is the structured form of a parsed curl command
type RequestDescriptor struct {
	Method   string
	URL      string
	Headers  map[string]string
	Cookie   string
	Body     string
	Query    url.Values
	Username string
	Password string
	HasAuth  bool
}

// Flags that take a value in the following token
var valueFlags = map[string]bool{
	"-X": true, "--request": true,
	"-H": true, "--header": true,
	"-d": true, "--data": true, "--data-raw": true, "--data-binary": true, "--data-urlencode": true,
	"-u": true, "--user": true,
	"-b": true, "--cookie": true,
	"-F": true, "--form": true,
	"-A": true, "--user-agent": true,
	"-e": true, "--referer": true,
	"--url": true,
	"-o": true, "--output": true,
	"-m": true, "--max-time": true,
}

// Flags that take no value
var booleanFlags = map[string]bool{
	"-s": true, "--silent": true,
	"-S": true, "--show-error": true,
	"-k": true, "--insecure": true,
	"-L": true, "--location": true,
	"-v": true, "--verbose": true,
	"-i": true, "--include": true,
	"-I": true, "--head": true,
	"-G": true, "--get": true,
	"--compressed": true,
	"-f": true, "--fail": true,
}

// ParseCurl tokenizes a curl command string and maps its flags onto a
// request descriptor. The method defaults to GET, or POST when a body is
// present without an explicit -X, matching curl's own behavior.
func ParseCurl(command string) (*RequestDescriptor, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return nil, fmt.Errorf("curl command is empty")
	}

	tokens, err := shellwords.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("failed to tokenize curl command: %w", err)
	}
	if len(tokens) > 0 && tokens[0] == "curl" {
		tokens = tokens[1:]
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("curl command has no arguments")
	}

	d := &RequestDescriptor{
		Headers: make(map[string]string),
		Query:   url.Values{},
	}

	var dataParts []string
	var formFields []string
	useGet := false

	for i := 0; i < len(tokens); i++ {
		token := tokens[i]

		flag, inlineValue, hasInline := splitLongFlag(token)

		switch {
		case valueFlags[flag]:
			value := inlineValue
			if !hasInline {
				if i+1 >= len(tokens) {
					return nil, fmt.Errorf("flag %s is missing its value", flag)
				}
				i++
				value = tokens[i]
			}
			applyFlag(d, flag, value, &dataParts, &formFields)

		case booleanFlags[flag]:
			if flag == "-G" || flag == "--get" {
				useGet = true
			}

		case strings.HasPrefix(token, "-"):
			// Unknown flag, ignore it rather than failing the whole command

		default:
			if d.URL == "" {
				d.URL = token
			}
		}
	}

	if d.URL == "" {
		return nil, fmt.Errorf("curl command has no URL")
	}

	if len(formFields) > 0 && len(dataParts) == 0 {
		dataParts = formFields
		if _, ok := d.Headers["Content-Type"]; !ok {
			d.Headers["Content-Type"] = "application/x-www-form-urlencoded"
		}
	}

	if len(dataParts) > 0 {
		joined := strings.Join(dataParts, "&")
		if useGet {
			if parsed, err := url.ParseQuery(joined); err == nil {
				for key, values := range parsed {
					for _, v := range values {
						d.Query.Add(key, v)
					}
				}
			}
		} else {
			d.Body = joined
		}
	}

	if d.Method == "" {
		if d.Body != "" {
			d.Method = "POST"
		} else {
			d.Method = "GET"
		}
	}
	d.Method = strings.ToUpper(d.Method)

	return d, nil
}

func applyFlag(d *RequestDescriptor, flag, value string, dataParts, formFields *[]string) {
	switch flag {
	case "-X", "--request":
		d.Method = value
	case "-H", "--header":
		name, headerValue := splitHeader(value)
		if name != "" {
			d.Headers[name] = headerValue
		}
	case "-d", "--data", "--data-raw", "--data-binary", "--data-urlencode":
		*dataParts = append(*dataParts, value)
	case "-F", "--form":
		*formFields = append(*formFields, value)
	case "-u", "--user":
		d.Username, d.Password = SplitCredentials(value)
		d.HasAuth = true
	case "-b", "--cookie":
		d.Cookie = value
	case "-A", "--user-agent":
		d.Headers["User-Agent"] = value
	case "-e", "--referer":
		d.Headers["Referer"] = value
	case "--url":
		d.URL = value
	}
}

// splitLongFlag handles the "--flag=value" form
func splitLongFlag(token string) (flag, value string, hasValue bool) {
	if strings.HasPrefix(token, "--") {
		if idx := strings.Index(token, "="); idx > 0 {
			return token[:idx], token[idx+1:], true
		}
	}
	return token, "", false
}

func splitHeader(raw string) (string, string) {
	idx := strings.Index(raw, ":")
	if idx < 0 {
		return strings.TrimSpace(raw), ""
	}
	return strings.TrimSpace(raw[:idx]), strings.TrimSpace(raw[idx+1:])
}

// SplitCredentials splits "user:pass" on the first colon. A missing
// password yields an empty string.
func SplitCredentials(raw string) (string, string) {
	idx := strings.Index(raw, ":")
	if idx < 0 {
		return raw, ""
	}
	return raw[:idx], raw[idx+1:]
}
