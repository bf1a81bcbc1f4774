package cache

import (
	"testing"
	"time"
)

func TestMemoryPages_RoundTrip(t *testing.T) {
	c := NewMemoryPages(time.Minute, time.Minute)

	c.Set("https://a.example/story", []byte("page a"))
	c.Set("https://b.example/story", []byte("page b"))

	got, found := c.Get("https://a.example/story")
	if !found || string(got) != "page a" {
		t.Errorf("unexpected hit: %q found=%v", got, found)
	}
	if _, found := c.Get("https://c.example/story"); found {
		t.Errorf("miss expected for unseen URL")
	}
}

func TestMemoryPages_Expires(t *testing.T) {
	c := NewMemoryPages(10*time.Millisecond, time.Minute)

	c.Set("https://a.example", []byte("page"))
	time.Sleep(30 * time.Millisecond)

	if _, found := c.Get("https://a.example"); found {
		t.Errorf("entry should expire after its TTL")
	}
}
