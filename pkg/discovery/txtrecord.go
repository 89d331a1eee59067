package discovery

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// TXTRecordMap is a map of TXT record key-value pairs.
type TXTRecordMap map[string]string

// EncodeBridgeTXT creates TXT records for the OSC endpoint.
func EncodeBridgeTXT(info *AdvertiseInfo) TXTRecordMap {
	txt := make(TXTRecordMap)
	if info.SessionID != "" {
		txt[TXTKeySession] = info.SessionID
	}
	if info.RemotePort != 0 {
		txt[TXTKeyRemotePort] = strconv.FormatUint(uint64(info.RemotePort), 10)
	}
	return txt
}

// DecodeBridgeTXT parses TXT records of an OSC endpoint. Unknown keys are
// ignored.
func DecodeBridgeTXT(txt TXTRecordMap) (*AdvertiseInfo, error) {
	info := &AdvertiseInfo{SessionID: txt[TXTKeySession]}
	if rp, ok := txt[TXTKeyRemotePort]; ok {
		port, err := strconv.ParseUint(rp, 10, 16)
		if err != nil || port == 0 {
			return nil, fmt.Errorf("%w: %s=%q", ErrInvalidPort, TXTKeyRemotePort, rp)
		}
		info.RemotePort = uint16(port)
	}
	return info, nil
}

// TXTRecordsToStrings converts a TXTRecordMap to a slice of "key=value" strings,
// sorted by key so repeated registrations carry identical records.
func TXTRecordsToStrings(txt TXTRecordMap) []string {
	result := make([]string, 0, len(txt))
	for k, v := range txt {
		result = append(result, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(result)
	return result
}

// StringsToTXTRecords parses a slice of "key=value" strings into a TXTRecordMap.
func StringsToTXTRecords(strs []string) TXTRecordMap {
	txt := make(TXTRecordMap)
	for _, s := range strs {
		parts := strings.SplitN(s, "=", 2)
		if len(parts) == 2 {
			txt[parts[0]] = parts[1]
		} else if len(parts) == 1 && parts[0] != "" {
			// Key without value (boolean flag)
			txt[parts[0]] = ""
		}
	}
	return txt
}

// ValidateInstanceName checks if an instance name is valid for mDNS.
func ValidateInstanceName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInstanceNameTooLong)
	}
	if len(name) > MaxInstanceNameLen {
		return ErrInstanceNameTooLong
	}
	return nil
}
