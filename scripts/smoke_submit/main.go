// Command smoke_submit posts a synthetic candidate application against a
// running instance and reports the outcome. Useful after deploys to verify
// the full pipeline (validation, uploads, persistence) end to end.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"time"
)

var jpegStub = []byte{
	0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46, 0x49, 0x46, 0x00, 0x01,
	0x01, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0xFF, 0xD9,
}

func main() {
	var (
		base    string
		email   string
		origin  string
		timeout time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080", "API base URL")
	flag.StringVar(&email, "email", fmt.Sprintf("smoke+%d@example.com", time.Now().Unix()), "Candidate email")
	flag.StringVar(&origin, "origin", "", "Origin header to send (empty omits it)")
	flag.DurationVar(&timeout, "timeout", 15*time.Second, "HTTP client timeout")
	flag.Parse()

	body, contentType, err := buildSubmission(email)
	if err != nil {
		log.Fatalf("failed to build submission: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, base+"/api/v1/applications", body)
	if err != nil {
		log.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", contentType)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}

	client := &http.Client{Timeout: timeout}
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("read response: %v", err)
	}

	fmt.Printf("Status: %d (%s)\n", resp.StatusCode, time.Since(start))
	fmt.Println(prettyJSON(raw))

	if resp.StatusCode != http.StatusCreated {
		os.Exit(1)
	}
}

func buildSubmission(email string) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	fields := map[string]string{
		"fullName":       "Smoke Test",
		"age":            "25",
		"mobile":         "9000000000",
		"email":          email,
		"city":           "Pune",
		"state":          "Maharashtra",
		"qualification":  "B.Tech",
		"specialization": "Computer Science",
		"college":        "Smoke University",
		"yearOfPassing":  "2024",
		"careerGap":      "0",
		"role":           "backend-engineer",
		"skillSet":       "Go",
		"experience":     "1 year",
		"availability":   "immediate",
		"declaration":    "true",
	}
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}

	if err := writeFile(writer, "photograph", "smoke.jpg", "image/jpeg", jpegStub); err != nil {
		return nil, "", err
	}
	resume := []byte("%PDF-1.4\n% smoke test resume\n%%EOF\n")
	if err := writeFile(writer, "resume", "smoke.pdf", "application/pdf", resume); err != nil {
		return nil, "", err
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}

func writeFile(writer *multipart.Writer, field, filename, contentType string, content []byte) error {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return err
	}
	_, err = part.Write(content)
	return err
}

func prettyJSON(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
