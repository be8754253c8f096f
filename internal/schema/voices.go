package schema

// Voice describes one voice offered by the TTS service.
type Voice struct {
	Name                   string   `json:"name"`
	LanguageCodes          []string `json:"languageCodes"`
	SSMLGender             string   `json:"ssmlGender"`
	NaturalSampleRateHertz int      `json:"naturalSampleRateHertz"`
}

// ListVoicesResponse is the cloud TTS voices list response body.
type ListVoicesResponse struct {
	Voices []Voice `json:"voices"`
}
