package docs

import (
	"encoding/json"
	"testing"

	"github.com/swaggo/swag/v2"
)

func TestReadDoc_RegisteredAndValid(t *testing.T) {
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	if err != nil {
		t.Fatalf("ReadDoc: %v", err)
	}
	var doc struct {
		Info struct {
			Title   string `json:"title"`
			Version string `json:"version"`
		} `json:"info"`
		Paths map[string]any `json:"paths"`
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("rendered document is not JSON: %v\n%s", err, raw)
	}
	if doc.Info.Title != "embedbatch API" || doc.Info.Version != "0.1.0" {
		t.Fatalf("info = %+v", doc.Info)
	}
	for _, p := range []string{"/embed", "/batcher/embed", "/batcher/stats", "/ledger/recent", "/meta/health", "/meta/ready", "/meta/version", "/meta/service"} {
		if _, ok := doc.Paths[p]; !ok {
			t.Fatalf("missing path %s", p)
		}
	}
}

func TestReadDoc_FollowsSwaggerInfo(t *testing.T) {
	prev := SwaggerInfo.Version
	t.Cleanup(func() { SwaggerInfo.Version = prev })
	SwaggerInfo.Version = "9.9.9"

	var doc struct {
		Info struct {
			Version string `json:"version"`
		} `json:"info"`
	}
	if err := json.Unmarshal([]byte(SwaggerInfo.ReadDoc()), &doc); err != nil || doc.Info.Version != "9.9.9" {
		t.Fatalf("version = %q, err %v", doc.Info.Version, err)
	}
}
