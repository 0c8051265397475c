package confloader

import "testing"

type serverConfig struct {
	Addr   string `koanf:"addr"`
	Engine string `koanf:"engine"`
	TP     string `koanf:"tp"`
}

func TestLoadEnvWithDefaultPrefix(t *testing.T) {
	t.Setenv("KVS_ADDR", "127.0.0.1:9000")
	t.Setenv("KVS_ENGINE", "sled")

	l := NewLoader()
	if err := l.LoadEnv(); err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}

	if got := l.GetString("addr"); got != "127.0.0.1:9000" {
		t.Errorf("addr = %q, want 127.0.0.1:9000", got)
	}
	if got := l.GetString("engine"); got != "sled" {
		t.Errorf("engine = %q, want sled", got)
	}
}

func TestLoadEnvWithCustomPrefix(t *testing.T) {
	t.Setenv("MYAPP_TP", "rayon")

	l := NewLoader(WithEnvPrefix("MYAPP_"))
	if err := l.LoadEnv(); err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if got := l.GetString("tp"); got != "rayon" {
		t.Errorf("tp = %q, want rayon", got)
	}
}

func TestLoadUnmarshalsIntoStruct(t *testing.T) {
	t.Setenv("KVS_ADDR", "0.0.0.0:5080")
	t.Setenv("KVS_ENGINE", "kvs")
	t.Setenv("KVS_TP", "queued")

	var cfg serverConfig
	if err := NewLoader().Load(&cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Addr != "0.0.0.0:5080" || cfg.Engine != "kvs" || cfg.TP != "queued" {
		t.Fatalf("Load produced %+v", cfg)
	}
}

func TestLoadMap(t *testing.T) {
	l := NewLoader()
	if err := l.LoadMap(map[string]any{"addr": "localhost:3000", "port": 8080}); err != nil {
		t.Fatalf("LoadMap: %v", err)
	}
	if got := l.GetString("addr"); got != "localhost:3000" {
		t.Errorf("addr = %q, want localhost:3000", got)
	}
	if got := l.GetInt("port"); got != 8080 {
		t.Errorf("port = %d, want 8080", got)
	}
}

func TestMapProviderHasNoByteForm(t *testing.T) {
	if _, err := (mapProvider{}).ReadBytes(); err == nil {
		t.Fatal("ReadBytes should be unsupported")
	}
}

func TestEnvPrecedenceIsLastLoadWins(t *testing.T) {
	t.Setenv("KVS_ADDR", "from-env")

	l := NewLoader()
	if err := l.LoadMap(map[string]any{"addr": "from-map"}); err != nil {
		t.Fatalf("LoadMap: %v", err)
	}
	if err := l.LoadEnv(); err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if got := l.GetString("addr"); got != "from-env" {
		t.Errorf("addr = %q, want env value to win over earlier map load", got)
	}
}
