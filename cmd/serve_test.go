package cmd

import "testing"

func TestValidateStoreMode(t *testing.T) {
	tests := []struct {
		name    string
		store   string
		async   string
		wantErr bool
	}{
		{name: "inline with file store", store: "file", async: "inline", wantErr: false},
		{name: "inline with postgres store", store: "postgres", async: "inline", wantErr: false},
		{name: "queue with postgres store", store: "postgres", async: "queue", wantErr: false},
		// The file store is single-process; serve and worker sharing
		// one directory would overwrite each other's appends.
		{name: "queue with file store", store: "file", async: "queue", wantErr: true},
		{name: "queue with unknown store", store: "redis", async: "queue", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateStoreMode(tt.store, tt.async)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateStoreMode(%q, %q) error = %v, wantErr %v", tt.store, tt.async, err, tt.wantErr)
			}
		})
	}
}
