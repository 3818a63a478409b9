package web

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"schoolsite/internal/event"
)

// TestEnrollSubmission saves a record and confirms it shows on the listing.
func TestEnrollSubmission(t *testing.T) {
	f := newFixture(t)

	form := url.Values{
		"fullName":    {"Jane Doe"},
		"parentEmail": {"a@b.com"},
		"gender":      {"F"},
		"age":         {"7"},
		"grade":       {"2"},
		"branch":      {"Main"},
	}
	req := httptest.NewRequest("POST", "/data", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := f.do(req, nil)

	if w.Code != 200 {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Enrollment Saved Successfully") {
		t.Fatalf("missing confirmation, body=%s", w.Body.String())
	}

	cookies := f.login(t, "admin", "s3cret")
	w = f.do(httptest.NewRequest("GET", "/enrolls", nil), cookies)
	if w.Code != 200 || !strings.Contains(w.Body.String(), "Jane Doe") {
		t.Fatalf("expected Jane Doe on listing, status=%d", w.Code)
	}
}

// TestEnrollRejectsIncompleteForm returns 400 when required fields are
// missing.
func TestEnrollRejectsIncompleteForm(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest("POST", "/data", strings.NewReader("fullName=Jane"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := f.do(req, nil)
	if w.Code != 400 {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if len(f.enrolls.records) != 0 {
		t.Fatalf("no record should be saved")
	}
}

// TestEventsListsFiveNewest creates six events and expects only the newest
// five, newest first.
func TestEventsListsFiveNewest(t *testing.T) {
	f := newFixture(t)

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 1; i <= 6; i++ {
		_, err := f.events.Insert(nil, event.Event{
			Name:      fmt.Sprintf("Event %d", i),
			StartDate: base.AddDate(0, 0, i),
			EndDate:   base.AddDate(0, 0, i+1),
			Venue:     "Hall",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	w := f.do(httptest.NewRequest("GET", "/events", nil), nil)
	if w.Code != 200 {
		t.Fatalf("status=%d", w.Code)
	}
	body := w.Body.String()
	if strings.Contains(body, "Event 1<") || strings.Contains(body, "Event 1</h2>") {
		t.Fatalf("oldest event should be dropped")
	}
	for i := 2; i <= 6; i++ {
		if !strings.Contains(body, fmt.Sprintf("Event %d", i)) {
			t.Fatalf("missing Event %d", i)
		}
	}
	if strings.Index(body, "Event 6") > strings.Index(body, "Event 5") {
		t.Fatalf("expected newest first ordering")
	}
}

// TestEventsRendersFormattedDates checks the long and short date annotations.
func TestEventsRendersFormattedDates(t *testing.T) {
	f := newFixture(t)

	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	if _, err := f.events.Insert(nil, event.Event{
		Name:      "Sports Day",
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 1),
		Venue:     "Main Field",
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	w := f.do(httptest.NewRequest("GET", "/events", nil), nil)
	body := w.Body.String()
	if !strings.Contains(body, "Sat Jun 1 2024") {
		t.Fatalf("missing long date, body=%s", body)
	}
	if !strings.Contains(body, ">Jun<") {
		t.Fatalf("missing short month badge")
	}
}

func multipartEvent(t *testing.T, pic []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := map[string]string{
		"name":        "Open Day",
		"startDate":   "2024-07-10",
		"endDate":     "2024-07-11",
		"venue":       "Main Hall",
		"description": "Doors open to all parents.",
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	fw, err := mw.CreateFormFile("pic", "openday.jpg")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(pic); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

// TestCreateEventStoresBlobAndRecord uploads a picture and creates the event
// document referencing it.
func TestCreateEventStoresBlobAndRecord(t *testing.T) {
	f := newFixture(t)
	cookies := f.login(t, "admin", "s3cret")

	pic := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x01, 0x02, 0x03}
	body, contentType := multipartEvent(t, pic)
	req := httptest.NewRequest("POST", "/create-event", body)
	req.Header.Set("Content-Type", contentType)
	w := f.do(req, cookies)

	if w.Code != 200 {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Event created Successfully") {
		t.Fatalf("missing confirmation")
	}
	if len(f.events.records) != 1 {
		t.Fatalf("expected one event, got %d", len(f.events.records))
	}
	evt := f.events.records[0]
	if evt.Pic == nil || evt.Pic.Filename != "openday.jpg" || evt.Pic.FileID == "" {
		t.Fatalf("event pic reference not set: %+v", evt.Pic)
	}
	if !bytes.Equal(f.blobs.content[evt.Pic.FileID], pic) {
		t.Fatalf("stored blob differs from upload")
	}
}

// TestCreateEventAnonymousCreatesNothing redirects and writes neither a blob
// nor a document.
func TestCreateEventAnonymousCreatesNothing(t *testing.T) {
	f := newFixture(t)

	body, contentType := multipartEvent(t, []byte{0x01})
	req := httptest.NewRequest("POST", "/create-event", body)
	req.Header.Set("Content-Type", contentType)
	w := f.do(req, nil)

	if w.Code != 302 || w.Header().Get("Location") != "/login" {
		t.Fatalf("expected redirect, got %d %q", w.Code, w.Header().Get("Location"))
	}
	if len(f.events.records) != 0 || len(f.blobs.objects) != 0 {
		t.Fatalf("nothing should be written for an anonymous request")
	}
}

// TestServeFileRoundTrip returns byte-identical content with the fixed image
// content type.
func TestServeFileRoundTrip(t *testing.T) {
	f := newFixture(t)

	pic := []byte{0xFF, 0xD8, 0xFF, 0xDB, 0xAA, 0xBB}
	if _, err := f.blobs.Put(nil, "pic.jpg", bytes.NewReader(pic)); err != nil {
		t.Fatalf("put: %v", err)
	}

	w := f.do(httptest.NewRequest("GET", "/files/pic.jpg", nil), nil)
	if w.Code != 200 {
		t.Fatalf("status=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Fatalf("content type %q", ct)
	}
	if !bytes.Equal(w.Body.Bytes(), pic) {
		t.Fatalf("response bytes differ from stored content")
	}
}

// TestServeFileNotFound returns 404 for a filename never written.
func TestServeFileNotFound(t *testing.T) {
	f := newFixture(t)

	w := f.do(httptest.NewRequest("GET", "/files/missing.jpg", nil), nil)
	if w.Code != 404 {
		t.Fatalf("status=%d", w.Code)
	}
}

// TestDuplicateFilenameResolvesToNewest documents the store's duplicate
// handling at the HTTP surface.
func TestDuplicateFilenameResolvesToNewest(t *testing.T) {
	f := newFixture(t)

	if _, err := f.blobs.Put(nil, "dup.jpg", strings.NewReader("old")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := f.blobs.Put(nil, "dup.jpg", strings.NewReader("new")); err != nil {
		t.Fatalf("put: %v", err)
	}

	w := f.do(httptest.NewRequest("GET", "/files/dup.jpg", nil), nil)
	if w.Body.String() != "new" {
		t.Fatalf("expected newest object, got %q", w.Body.String())
	}
}
