package storage

import "time"

// DOSDateTime decodes a FAT directory-entry date/time pair (plus the
// optional tenths-of-a-second creation field) into a time.Time, per
// https://www.win.tue.nl/~aeb/linux/fs/fat/fat-1.html.
func DOSDateTime(date, clock uint16, tenths uint8) time.Time {
	hour := int(clock >> 11)
	min := int((clock >> 5) & 0x3f)
	sec := int(clock&0x1f)*2 + int(tenths)/100
	nsec := (int(tenths) % 100) * 10 * 1000 * 1000

	year := int(date>>9) + 1980
	month := int((date >> 5) & 0xf)
	day := int(date & 0x1f)
	if month == 0 {
		month = 1
	}
	if day == 0 {
		day = 1
	}
	return time.Date(year, time.Month(month), day, hour, min, sec, nsec, time.UTC)
}

// Ext4Timestamp combines an ext4 32-bit coarse second count with its
// "extra" companion word into nanoseconds since the Unix epoch. The low 2
// bits of extra extend the sign-extended epoch seconds by multiples of
// 2^30 seconds (pushing ext4's range out past 2038 and 2106); the upper 30
// bits are nanoseconds.
func Ext4Timestamp(sec int32, extra uint32) int64 {
	epochExt := int64(extra&0x3) << 30
	nanos := int64(extra >> 2)
	return (int64(sec)+epochExt)*1_000_000_000 + nanos
}
