package realtime

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// ChannelAuthorizer signs subscription requests the way the hosted pub/sub
// transports do: HMAC-SHA256 over "socket_id:channel_name" (plus the channel
// data for presence-style subscriptions), returned as "key:signature".
type ChannelAuthorizer struct {
	key    string
	secret []byte
}

func NewChannelAuthorizer(key, secret string) *ChannelAuthorizer {
	return &ChannelAuthorizer{key: key, secret: []byte(secret)}
}

type ChannelAuth struct {
	Auth        string `json:"auth"`
	ChannelData string `json:"channel_data,omitempty"`
}

type channelData struct {
	UserID string `json:"user_id"`
}

// Authorize produces the opaque token a client presents to subscribe to a
// channel. userID is the caller's stable identity token (email).
func (a *ChannelAuthorizer) Authorize(socketID, channel, userID string) (ChannelAuth, error) {
	data, err := json.Marshal(channelData{UserID: userID})
	if err != nil {
		return ChannelAuth{}, err
	}
	toSign := socketID + ":" + channel + ":" + string(data)
	mac := hmac.New(sha256.New, a.secret)
	mac.Write([]byte(toSign))
	return ChannelAuth{
		Auth:        a.key + ":" + hex.EncodeToString(mac.Sum(nil)),
		ChannelData: string(data),
	}, nil
}
