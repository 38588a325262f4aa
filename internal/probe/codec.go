package probe

import (
	"fmt"
	"net"
	"time"

	"google.golang.org/protobuf/encoding/protowire"

	"FlowAtlas/internal/model"
)

// Wire field numbers of the packet record. The layout is protobuf wire
// format, encoded directly with protowire so no generated bindings are
// needed; any protobuf consumer with a matching schema can read the stream.
const (
	fieldTimestamp = 1 // int64, unix nanoseconds
	fieldSrcIP     = 2 // bytes
	fieldDstIP     = 3 // bytes
	fieldSrcPort   = 4 // uint32
	fieldDstPort   = 5 // uint32
	fieldProtocol  = 6 // uint32
	fieldLength    = 7 // uint64
)

// MarshalPacket serializes a PacketInfo to protobuf wire format.
func MarshalPacket(info *model.PacketInfo) []byte {
	var b []byte

	b = protowire.AppendTag(b, fieldTimestamp, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(info.Timestamp.UnixNano()))

	b = protowire.AppendTag(b, fieldSrcIP, protowire.BytesType)
	b = protowire.AppendBytes(b, info.FiveTuple.SrcIP)

	b = protowire.AppendTag(b, fieldDstIP, protowire.BytesType)
	b = protowire.AppendBytes(b, info.FiveTuple.DstIP)

	b = protowire.AppendTag(b, fieldSrcPort, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(info.FiveTuple.SrcPort))

	b = protowire.AppendTag(b, fieldDstPort, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(info.FiveTuple.DstPort))

	b = protowire.AppendTag(b, fieldProtocol, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(info.FiveTuple.Protocol))

	b = protowire.AppendTag(b, fieldLength, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(info.Length))

	return b
}

// UnmarshalPacket decodes a protobuf wire format packet record. Unknown
// fields are skipped for forward compatibility.
func UnmarshalPacket(data []byte) (*model.PacketInfo, error) {
	info := &model.PacketInfo{}

	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("invalid packet record tag: %w", protowire.ParseError(n))
		}
		data = data[n:]

		switch typ {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return nil, fmt.Errorf("invalid varint for field %d: %w", num, protowire.ParseError(n))
			}
			data = data[n:]

			switch num {
			case fieldTimestamp:
				info.Timestamp = time.Unix(0, int64(v))
			case fieldSrcPort:
				info.FiveTuple.SrcPort = uint16(v)
			case fieldDstPort:
				info.FiveTuple.DstPort = uint16(v)
			case fieldProtocol:
				info.FiveTuple.Protocol = uint8(v)
			case fieldLength:
				info.Length = int(v)
			}

		case protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, fmt.Errorf("invalid bytes for field %d: %w", num, protowire.ParseError(n))
			}
			data = data[n:]

			switch num {
			case fieldSrcIP:
				info.FiveTuple.SrcIP = net.IP(append([]byte(nil), v...))
			case fieldDstIP:
				info.FiveTuple.DstIP = net.IP(append([]byte(nil), v...))
			}

		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, fmt.Errorf("invalid field %d: %w", num, protowire.ParseError(n))
			}
			data = data[n:]
		}
	}

	return info, nil
}
