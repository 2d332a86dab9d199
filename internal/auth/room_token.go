package auth

import (
	"errors"
	"time"

	lkauth "github.com/livekit/protocol/auth"
)

type RoomTokenIssuer struct {
	apiKey    string
	apiSecret string
	ttl       time.Duration
}

func NewRoomTokenIssuer(apiKey, apiSecret string, ttl time.Duration) *RoomTokenIssuer {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RoomTokenIssuer{apiKey: apiKey, apiSecret: apiSecret, ttl: ttl}
}

// Issue signs a LiveKit access token that lets identity join room with
// publish and subscribe rights.
func (i *RoomTokenIssuer) Issue(identity, displayName, room, metadata string) (string, error) {
	if i.apiKey == "" || i.apiSecret == "" {
		return "", errors.New("room token issuer is not configured")
	}
	if identity == "" || room == "" {
		return "", errors.New("identity and room are required")
	}

	grant := &lkauth.VideoGrant{RoomJoin: true, Room: room}
	grant.SetCanPublish(true)
	grant.SetCanSubscribe(true)
	grant.SetCanPublishData(true)

	return lkauth.NewAccessToken(i.apiKey, i.apiSecret).
		SetVideoGrant(grant).
		SetIdentity(identity).
		SetName(displayName).
		SetMetadata(metadata).
		SetValidFor(i.ttl).
		ToJWT()
}
