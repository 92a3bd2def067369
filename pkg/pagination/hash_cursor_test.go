package pagination

import "testing"

func TestEncodeDecodeHashCursor_RoundTrip(t *testing.T) {
	c := HashCursor{V: 1, Sid: "sheet-1", Lyr: "fills", Epo: 7, Off: 200, Ps: 500}
	tok, err := EncodeHashCursor(c)
	if err != nil {
		t.Fatalf("EncodeHashCursor error: %v", err)
	}
	out, err := DecodeHashCursor(tok)
	if err != nil {
		t.Fatalf("DecodeHashCursor error: %v", err)
	}
	if out.Sid != c.Sid || out.Lyr != c.Lyr || out.Epo != c.Epo || out.Off != c.Off || out.Ps != c.Ps {
		t.Fatalf("roundtrip mismatch: got %+v want %+v", out, c)
	}
}

func TestDecodeHashCursor_Invalid(t *testing.T) {
	cases := []string{
		"",
		"!!!",
		mustB64(`{"v":1}`),
		mustB64(`{"v":1,"sid":"","lyr":"fills","off":0,"ps":10}`),
		mustB64(`{"v":1,"sid":"s","lyr":"","off":0,"ps":10}`),
		mustB64(`{"v":1,"sid":"s","lyr":"fills","off":-1,"ps":10}`),
		mustB64(`{"v":1,"sid":"s","lyr":"fills","off":0,"ps":0}`),
	}
	for i, tok := range cases {
		if _, err := DecodeHashCursor(tok); err == nil {
			t.Fatalf("case %d: expected error for token %q", i, tok)
		}
	}
}
