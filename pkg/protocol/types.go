package protocol

// PacketType identifies a datagram's purpose. The numeric values belong to
// the target server's registry and must match it exactly; they are not
// negotiable at runtime.
type PacketType uint8

const (
	PacketUnknown                     PacketType = 0
	PacketPing                        PacketType = 1
	PacketPingReply                   PacketType = 2
	PacketDomainList                  PacketType = 3
	PacketDomainListRequest           PacketType = 4
	PacketDomainConnectionDenied      PacketType = 6
	PacketDomainServerRequireDTLS     PacketType = 7
	PacketDomainConnectRequest        PacketType = 8
	PacketDomainServerPathQuery       PacketType = 9
	PacketDomainServerPathResponse    PacketType = 10
	PacketDomainServerAddedNode       PacketType = 11
	PacketDomainServerConnectionToken PacketType = 12
	PacketDomainSettingsRequest       PacketType = 13
	PacketDomainSettings              PacketType = 14
	PacketICEPing                     PacketType = 39
	PacketICEPingReply                PacketType = 40
	PacketEntityAdd                   PacketType = 0x41
	PacketEntityEdit                  PacketType = 0x42
	PacketEntityErase                 PacketType = 0x43
	PacketEntityQuery                 PacketType = 0x44
	PacketEntityData                  PacketType = 0x45

	// NumPacketTypes is the size of the server's packet-type registry and the
	// count byte fed into the protocol signature digest.
	NumPacketTypes = 0x46
)

func (t PacketType) String() string {
	switch t {
	case PacketPing:
		return "Ping"
	case PacketPingReply:
		return "PingReply"
	case PacketDomainList:
		return "DomainList"
	case PacketDomainListRequest:
		return "DomainListRequest"
	case PacketDomainConnectionDenied:
		return "DomainConnectionDenied"
	case PacketDomainServerRequireDTLS:
		return "DomainServerRequireDTLS"
	case PacketDomainConnectRequest:
		return "DomainConnectRequest"
	case PacketDomainServerPathQuery:
		return "DomainServerPathQuery"
	case PacketDomainServerPathResponse:
		return "DomainServerPathResponse"
	case PacketDomainServerAddedNode:
		return "DomainServerAddedNode"
	case PacketDomainServerConnectionToken:
		return "DomainServerConnectionToken"
	case PacketDomainSettingsRequest:
		return "DomainSettingsRequest"
	case PacketDomainSettings:
		return "DomainSettings"
	case PacketICEPing:
		return "ICEPing"
	case PacketICEPingReply:
		return "ICEPingReply"
	case PacketEntityAdd:
		return "EntityAdd"
	case PacketEntityEdit:
		return "EntityEdit"
	case PacketEntityErase:
		return "EntityErase"
	case PacketEntityQuery:
		return "EntityQuery"
	case PacketEntityData:
		return "EntityData"
	default:
		return "Unknown"
	}
}

// Sourced reports whether packets of this type carry the 2-byte local-id
// header extension. Handshake and ICE traffic flows before a local id is
// assigned and is never sourced.
func (t PacketType) Sourced() bool {
	switch t {
	case PacketDomainList, PacketDomainListRequest, PacketDomainConnectRequest,
		PacketDomainConnectionDenied, PacketDomainServerRequireDTLS,
		PacketDomainServerPathQuery, PacketDomainServerPathResponse,
		PacketDomainServerAddedNode, PacketDomainServerConnectionToken,
		PacketDomainSettingsRequest, PacketDomainSettings,
		PacketICEPing, PacketICEPingReply:
		return false
	}
	return true
}

// NodeType identifies an assignment-client role in domain-list records.
type NodeType uint8

const (
	NodeDomainServer       NodeType = 0
	NodeEntityServer       NodeType = 1
	NodeAgent              NodeType = 2
	NodeAudioMixer         NodeType = 3
	NodeAvatarMixer        NodeType = 4
	NodeAssetServer        NodeType = 5
	NodeMessagesMixer      NodeType = 6
	NodeEntityScriptServer NodeType = 7
)

func (n NodeType) String() string {
	switch n {
	case NodeDomainServer:
		return "DomainServer"
	case NodeEntityServer:
		return "EntityServer"
	case NodeAgent:
		return "Agent"
	case NodeAudioMixer:
		return "AudioMixer"
	case NodeAvatarMixer:
		return "AvatarMixer"
	case NodeAssetServer:
		return "AssetServer"
	case NodeMessagesMixer:
		return "MessagesMixer"
	case NodeEntityScriptServer:
		return "EntityScriptServer"
	default:
		return "Unknown"
	}
}
