package dto

// MetaWebhookPayload is the envelope Meta posts for page and instagram
// subscriptions.
type MetaWebhookPayload struct {
	Object string      `json:"object"`
	Entry  []MetaEntry `json:"entry"`
}

type MetaEntry struct {
	ID        string          `json:"id"`
	Time      int64           `json:"time"`
	Messaging []MetaMessaging `json:"messaging"`
}

type MetaMessaging struct {
	Sender    MetaParty    `json:"sender"`
	Recipient MetaParty    `json:"recipient"`
	Timestamp int64        `json:"timestamp"` // unix millis
	Message   *MetaMessage `json:"message,omitempty"`
}

type MetaParty struct {
	ID string `json:"id"`
}

type MetaMessage struct {
	MID    string `json:"mid"`
	Text   string `json:"text"`
	IsEcho bool   `json:"is_echo,omitempty"`
}
