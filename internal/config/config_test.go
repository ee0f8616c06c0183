package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("GOOGLE_PROJECT_ID", "proj")
	t.Setenv("CURRENCY", "")
	t.Setenv("BQ_DATASET", "")

	c := Load()
	if c.Port != "8080" {
		t.Errorf("Port = %q, want 8080", c.Port)
	}
	if c.Currency != "PKR" {
		t.Errorf("Currency = %q, want PKR", c.Currency)
	}
	if c.BQDataset != "finance" {
		t.Errorf("BQDataset = %q, want finance", c.BQDataset)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"complete", Config{ProjectID: "p", GCSBucket: "b"}, false},
		{"missing project", Config{GCSBucket: "b"}, true},
		{"missing bucket", Config{ProjectID: "p"}, true},
		{"notion token without db", Config{ProjectID: "p", GCSBucket: "b", NotionToken: "t"}, true},
		{"notion complete", Config{ProjectID: "p", GCSBucket: "b", NotionToken: "t", NotionDBID: "d"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNotionEnabled(t *testing.T) {
	if (&Config{}).NotionEnabled() {
		t.Error("empty config must not enable Notion")
	}
	if !(&Config{NotionToken: "t", NotionDBID: "d"}).NotionEnabled() {
		t.Error("full Notion config must enable the mirror")
	}
}
