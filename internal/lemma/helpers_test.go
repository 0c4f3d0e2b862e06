package lemma

import "semantus/internal/config"

func testConfig(lemType string) *config.Config {
	return &config.Config{
		Lemmatizer: config.LemmatizerConfig{Type: lemType},
	}
}
