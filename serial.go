// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import "code.hybscloud.com/atomix"

// ID identifies a microthread. IDs are unique and increasing across all
// schedulers of a process; zero is never issued.
type ID uint64

var lastID atomix.Uint64

func nextID() ID {
	return ID(lastID.Add(1))
}
