// Copyright 2026 ETH Zurich
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package topology

// RemoveIncompleteRouters removes the border routers that have at least one
// interface without a remote end. Such routers were synthesized for a link
// that is not established yet and must not end up in a topology file. It
// returns the removed router indices in ascending order.
func RemoveIncompleteRouters(t *Topology) []string {
	var removed []string
	for _, id := range t.RouterIDs() {
		br := t.BorderRouters[id]
		if br == nil {
			removed = append(removed, id)
			delete(t.BorderRouters, id)
			continue
		}
		for _, intf := range br.Interfaces {
			if intf == nil || !intf.Linked() {
				removed = append(removed, id)
				delete(t.BorderRouters, id)
				break
			}
		}
	}
	return removed
}
