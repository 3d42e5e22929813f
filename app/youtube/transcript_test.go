package youtube

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseTranscript(t *testing.T) {
	data := []byte(`<?xml version="1.0" encoding="utf-8"?>
<transcript>
  <text start="0.0" dur="2.5">Hello everyone,</text>
  <text start="2.5" dur="3.1">welcome back to the channel.</text>
  <text start="5.6" dur="2.0">Today we&#39;re covering the news.</text>
</transcript>`)

	text, err := ParseTranscript(data)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	expected := "Hello everyone, welcome back to the channel. Today we're covering the news."
	if text != expected {
		t.Errorf("Expected %q, got %q", expected, text)
	}
}

func TestParseTranscript_EmptySegmentsDropped(t *testing.T) {
	data := []byte(`<transcript><text>first</text><text>   </text><text>second</text></transcript>`)

	text, err := ParseTranscript(data)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if text != "first second" {
		t.Errorf("Expected %q, got %q", "first second", text)
	}
}

func TestParseTranscript_InvalidXML(t *testing.T) {
	if _, err := ParseTranscript([]byte("<transcript><text>broken")); err == nil {
		t.Errorf("Expected error for malformed XML")
	}
}

func TestTranscriptClient_Fetch_EmptyBodyMeansNoTranscript(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// YouTube returns 200 with an empty body when no caption track exists
	}))
	defer server.Close()

	client := NewTranscriptClient(&http.Client{Timeout: 5 * time.Second})
	client.baseURL = server.URL

	text, err := client.Fetch(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if text != "" {
		t.Errorf("Expected empty transcript, got %q", text)
	}
}

func TestTranscriptClient_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("v"); got != "abc123" {
			t.Errorf("Expected video id abc123, got %q", got)
		}
		fmt.Fprint(w, `<transcript><text>segment one</text><text>segment two</text></transcript>`)
	}))
	defer server.Close()

	client := NewTranscriptClient(&http.Client{Timeout: 5 * time.Second})
	client.baseURL = server.URL

	text, err := client.Fetch(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if text != "segment one segment two" {
		t.Errorf("Expected joined transcript, got %q", text)
	}
}
