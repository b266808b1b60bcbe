package webrtc

// DataChannelParameters describes the configuration of the DataChannel.
type DataChannelParameters struct {
	Label string `json:"label"`
	ID    uint16 `json:"id"`
}
