// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cseq

import "code.hybscloud.com/atomix"

// Serial is a monotonically increasing coordinator identifier,
// assigned at fork time. Used for diagnostics only.
type Serial = uint32

// counter is the global monotonic counter for coordinator serials.
var counter atomix.Uint32

// nextSerial returns the next monotonically increasing serial.
func nextSerial() Serial {
	return counter.Add(1)
}
