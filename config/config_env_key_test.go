package config

import "testing"

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"push": map[string]any{
			"publicKey":     "",
			"subscribePath": "",
		},
		"worker": map[string]any{
			"scriptPath": "",
		},
		"cache": map[string]any{
			"name": "",
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "PUSH_PUBLICKEY", want: "push.publicKey"},
		{envKey: "PUSH_SUBSCRIBEPATH", want: "push.subscribePath"},
		{envKey: "WORKER_SCRIPTPATH", want: "worker.scriptPath"},
		{envKey: "CACHE_NAME", want: "cache.name"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	if cfg.Push.SubscribePath != "/api/push/subscribe" {
		t.Fatalf("unexpected subscribe path: %q", cfg.Push.SubscribePath)
	}
	if cfg.Worker.ScriptPath != "/service-worker.js" {
		t.Fatalf("unexpected worker script path: %q", cfg.Worker.ScriptPath)
	}
	if cfg.Cache.Name != "wabot-v2" {
		t.Fatalf("unexpected cache name: %q", cfg.Cache.Name)
	}
	if len(cfg.Cache.Manifest) == 0 {
		t.Fatal("expected a default cache manifest")
	}
	if cfg.Push.DefaultURL != "/profesional" {
		t.Fatalf("unexpected default url: %q", cfg.Push.DefaultURL)
	}
}
