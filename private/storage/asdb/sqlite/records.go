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

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"net/netip"

	"github.com/netsec-ethz/scion-web/pkg/addr"
	"github.com/netsec-ethz/scion-web/pkg/private/serrors"
	"github.com/netsec-ethz/scion-web/private/storage/asdb"
	"github.com/netsec-ethz/scion-web/private/storage/db"
	"github.com/netsec-ethz/scion-web/private/topology"
)

func errNotFound(ia addr.IA) error {
	return serrors.JoinNoStack(asdb.ErrNotFound, nil, "ia", ia)
}

func addrType(raw string) string {
	a, err := netip.ParseAddr(raw)
	switch {
	case err != nil:
		return ""
	case a.Is4():
		return "IPv4"
	default:
		return "IPv6"
	}
}

func fillFromTopology(ctx context.Context, tx sqler, topo *topology.Topology,
	raw []byte, clear bool) error {

	ia := topo.IA()
	query := `
		INSERT INTO ases (IsdID, AsID, IsCore, OriginalTopology) VALUES (?, ?, ?, ?)
		ON CONFLICT (IsdID, AsID) DO UPDATE SET
			IsCore = excluded.IsCore,
			OriginalTopology = excluded.OriginalTopology`
	_, err := tx.ExecContext(ctx, query, int64(ia.ISD()), int64(ia.AS()),
		bool(topo.Core), string(raw))
	if err != nil {
		return db.NewWriteError("storing AS", err, "ia", ia)
	}
	asRow, err := asRowID(ctx, tx, ia)
	if err != nil {
		return err
	}
	if clear {
		if err := deleteRouters(ctx, tx, asRow, nil); err != nil {
			return err
		}
		if err := deleteServices(ctx, tx, asRow, nil, nil); err != nil {
			return err
		}
	}
	for _, id := range topo.RouterIDs() {
		if !clear {
			if err := deleteRouters(ctx, tx, asRow, id); err != nil {
				return err
			}
		}
		if err := insertRouter(ctx, tx, asRow, id, topo.BorderRouters[id]); err != nil {
			return serrors.Wrap("storing border router", err, "ia", ia, "router", id)
		}
	}
	services := topo.Services()
	for _, kind := range sortedKinds(services) {
		for name, svc := range services[kind] {
			if !clear {
				if err := deleteServices(ctx, tx, asRow, kind, name); err != nil {
					return err
				}
			}
			if err := insertService(ctx, tx, asRow, kind, name, svc); err != nil {
				return serrors.Wrap("storing service", err, "ia", ia, "service", name)
			}
		}
	}
	return nil
}

// deleteRouters deletes the router name of the AS and its records. A nil
// name deletes all routers of the AS.
func deleteRouters(ctx context.Context, tx sqler, asRow int64, name any) error {
	routers := `SELECT RowID FROM border_routers WHERE ASRowID = ?1 AND (?2 IS NULL OR Name = ?2)`
	queries := []string{
		`DELETE FROM border_router_addresses WHERE RouterRowID IN (` + routers + `)`,
		`DELETE FROM border_router_interfaces WHERE RouterRowID IN (` + routers + `)`,
		`DELETE FROM border_routers WHERE ASRowID = ?1 AND (?2 IS NULL OR Name = ?2)`,
	}
	for _, query := range queries {
		if _, err := tx.ExecContext(ctx, query, asRow, name); err != nil {
			return db.NewWriteError("deleting border routers", err, "router", name)
		}
	}
	return nil
}

// deleteServices deletes the service name of the given kind and its
// addresses. Nil values match all services.
func deleteServices(ctx context.Context, tx sqler, asRow int64, kind, name any) error {
	services := `SELECT RowID FROM services
		WHERE ASRowID = ?1 AND (?2 IS NULL OR Kind = ?2) AND (?3 IS NULL OR Name = ?3)`
	queries := []string{
		`DELETE FROM service_addresses WHERE ServiceRowID IN (` + services + `)`,
		`DELETE FROM services
		WHERE ASRowID = ?1 AND (?2 IS NULL OR Kind = ?2) AND (?3 IS NULL OR Name = ?3)`,
	}
	for _, query := range queries {
		if _, err := tx.ExecContext(ctx, query, asRow, kind, name); err != nil {
			return db.NewWriteError("deleting services", err, "service", name)
		}
	}
	return nil
}

func insertRouter(ctx context.Context, tx sqler, asRow int64, name string,
	br *topology.BorderRouter) error {

	res, err := tx.ExecContext(ctx,
		`INSERT INTO border_routers (ASRowID, Name) VALUES (?, ?)`, asRow, name)
	if err != nil {
		return db.NewWriteError("inserting border router", err)
	}
	routerRow, err := res.LastInsertId()
	if err != nil {
		return db.NewWriteError("reading border router id", err)
	}
	if br == nil {
		return nil
	}
	insertAddr := `
		INSERT INTO border_router_addresses
			(RouterRowID, InternalIdx, IsPublic, Pos, Addr, L4Port, AddrType)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	for idx, internal := range br.InternalAddrs {
		for _, group := range []struct {
			public bool
			addrs  []topology.Address
		}{{true, internal.Public}, {false, internal.Bind}} {
			for pos, a := range group.addrs {
				_, err := tx.ExecContext(ctx, insertAddr, routerRow, idx, group.public, pos,
					a.Addr, a.L4Port, addrType(a.Addr))
				if err != nil {
					return db.NewWriteError("inserting border router address", err)
				}
			}
		}
	}
	insertIntf := `
		INSERT INTO border_router_interfaces
			(RouterRowID, InterfaceID, Addr, L4Port, BindAddr, BindL4Port, RemoteAddr,
			RemoteL4Port, InternalAddrIdx, Bandwidth, MTU, NeighborIsdID, NeighborAsID,
			NeighborType)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, id := range br.InterfaceIDs() {
		intf := br.Interfaces[id]
		if intf == nil {
			continue
		}
		var bindAddr sql.NullString
		var bindPort sql.NullInt64
		if intf.Bind != nil {
			bindAddr = sql.NullString{String: intf.Bind.Addr, Valid: true}
			bindPort = sql.NullInt64{Int64: int64(intf.Bind.L4Port), Valid: true}
		}
		_, err := tx.ExecContext(ctx, insertIntf, routerRow, id,
			intf.Public.Addr, intf.Public.L4Port, bindAddr, bindPort,
			intf.Remote.Addr, intf.Remote.L4Port, intf.InternalAddrIdx,
			intf.Bandwidth, intf.MTU, int64(intf.ISDAS.ISD()), int64(intf.ISDAS.AS()),
			string(intf.LinkType))
		if err != nil {
			return db.NewWriteError("inserting border router interface", err, "interface", id)
		}
	}
	return nil
}

func insertService(ctx context.Context, tx sqler, asRow int64, kind, name string,
	svc *topology.Service) error {

	res, err := tx.ExecContext(ctx,
		`INSERT INTO services (ASRowID, Kind, Name) VALUES (?, ?, ?)`, asRow, kind, name)
	if err != nil {
		return db.NewWriteError("inserting service", err)
	}
	svcRow, err := res.LastInsertId()
	if err != nil {
		return db.NewWriteError("reading service id", err)
	}
	if svc == nil {
		return nil
	}
	query := `
		INSERT INTO service_addresses (ServiceRowID, IsPublic, Pos, Addr, L4Port, AddrType)
		VALUES (?, ?, ?, ?, ?, ?)`
	for _, group := range []struct {
		public bool
		addrs  []topology.Address
	}{{true, svc.Public}, {false, svc.Bind}} {
		for pos, a := range group.addrs {
			_, err := tx.ExecContext(ctx, query, svcRow, group.public, pos,
				a.Addr, a.L4Port, addrType(a.Addr))
			if err != nil {
				return db.NewWriteError("inserting service address", err)
			}
		}
	}
	return nil
}

// generateTopology builds the topology of ia from the stored topology and
// the element records. The records replace the border routers and services
// of the stored topology.
func generateTopology(ctx context.Context, q querier, ia addr.IA) (*topology.Topology, error) {
	var asRow int64
	var core bool
	var raw string
	err := q.QueryRowContext(ctx,
		`SELECT RowID, IsCore, OriginalTopology FROM ases WHERE IsdID = ? AND AsID = ?`,
		int64(ia.ISD()), int64(ia.AS())).Scan(&asRow, &core, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errNotFound(ia)
	}
	if err != nil {
		return nil, db.NewReadError("selecting AS", err, "ia", ia)
	}
	topo, err := topology.Decode([]byte(raw))
	if err != nil {
		return nil, db.NewDataError("decoding stored topology", err, "ia", ia)
	}
	topo.ISD, topo.AS, topo.Core = ia.ISD(), ia.AS(), topology.Flag(core)
	topo.BorderRouters = make(map[string]*topology.BorderRouter)
	topo.BeaconService = make(map[string]*topology.Service)
	topo.CertificateService = make(map[string]*topology.Service)
	topo.PathService = make(map[string]*topology.Service)
	topo.SibraService = make(map[string]*topology.Service)

	routers, err := readRouters(ctx, q, asRow, topo)
	if err != nil {
		return nil, err
	}
	if err := readRouterAddresses(ctx, q, asRow, routers); err != nil {
		return nil, err
	}
	if err := readInterfaces(ctx, q, asRow, routers); err != nil {
		return nil, err
	}
	services, err := readServices(ctx, q, asRow, topo)
	if err != nil {
		return nil, err
	}
	if err := readServiceAddresses(ctx, q, asRow, services); err != nil {
		return nil, err
	}
	return topo, nil
}

func readRouters(ctx context.Context, q querier, asRow int64,
	topo *topology.Topology) (map[int64]*topology.BorderRouter, error) {

	rows, err := q.QueryContext(ctx,
		`SELECT RowID, Name FROM border_routers WHERE ASRowID = ?`, asRow)
	if err != nil {
		return nil, db.NewReadError("selecting border routers", err)
	}
	defer rows.Close()
	routers := make(map[int64]*topology.BorderRouter)
	for rows.Next() {
		var rowID int64
		var name string
		if err := rows.Scan(&rowID, &name); err != nil {
			return nil, db.NewReadError("scanning border router", err)
		}
		br := &topology.BorderRouter{Interfaces: make(map[string]*topology.Interface)}
		routers[rowID] = br
		topo.BorderRouters[name] = br
	}
	if err := rows.Err(); err != nil {
		return nil, db.NewReadError("iterating border routers", err)
	}
	return routers, nil
}

func readRouterAddresses(ctx context.Context, q querier, asRow int64,
	routers map[int64]*topology.BorderRouter) error {

	query := `
		SELECT a.RouterRowID, a.InternalIdx, a.IsPublic, a.Addr, a.L4Port
		FROM border_router_addresses a
		JOIN border_routers r ON a.RouterRowID = r.RowID
		WHERE r.ASRowID = ?
		ORDER BY a.RouterRowID, a.InternalIdx, a.IsPublic DESC, a.Pos`
	rows, err := q.QueryContext(ctx, query, asRow)
	if err != nil {
		return db.NewReadError("selecting border router addresses", err)
	}
	defer rows.Close()
	for rows.Next() {
		var routerRow int64
		var idx int
		var public bool
		var a topology.Address
		if err := rows.Scan(&routerRow, &idx, &public, &a.Addr, &a.L4Port); err != nil {
			return db.NewReadError("scanning border router address", err)
		}
		br, ok := routers[routerRow]
		if !ok || idx < 0 {
			return db.NewDataError("dangling border router address", nil, "router", routerRow)
		}
		for len(br.InternalAddrs) <= idx {
			br.InternalAddrs = append(br.InternalAddrs, topology.InternalAddr{})
		}
		if public {
			br.InternalAddrs[idx].Public = append(br.InternalAddrs[idx].Public, a)
		} else {
			br.InternalAddrs[idx].Bind = append(br.InternalAddrs[idx].Bind, a)
		}
	}
	if err := rows.Err(); err != nil {
		return db.NewReadError("iterating border router addresses", err)
	}
	return nil
}

func readInterfaces(ctx context.Context, q querier, asRow int64,
	routers map[int64]*topology.BorderRouter) error {

	query := `
		SELECT i.RouterRowID, i.InterfaceID, i.Addr, i.L4Port, i.BindAddr, i.BindL4Port,
			i.RemoteAddr, i.RemoteL4Port, i.InternalAddrIdx, i.Bandwidth, i.MTU,
			i.NeighborIsdID, i.NeighborAsID, i.NeighborType
		FROM border_router_interfaces i
		JOIN border_routers r ON i.RouterRowID = r.RowID
		WHERE r.ASRowID = ?`
	rows, err := q.QueryContext(ctx, query, asRow)
	if err != nil {
		return db.NewReadError("selecting border router interfaces", err)
	}
	defer rows.Close()
	for rows.Next() {
		var routerRow, isd, as int64
		var id, linkType string
		var bindAddr sql.NullString
		var bindPort sql.NullInt64
		intf := &topology.Interface{}
		err := rows.Scan(&routerRow, &id, &intf.Public.Addr, &intf.Public.L4Port,
			&bindAddr, &bindPort, &intf.Remote.Addr, &intf.Remote.L4Port,
			&intf.InternalAddrIdx, &intf.Bandwidth, &intf.MTU, &isd, &as, &linkType)
		if err != nil {
			return db.NewReadError("scanning border router interface", err)
		}
		br, ok := routers[routerRow]
		if !ok {
			return db.NewDataError("dangling border router interface", nil, "router", routerRow)
		}
		if bindAddr.Valid {
			intf.Bind = &topology.Address{Addr: bindAddr.String, L4Port: int(bindPort.Int64)}
		}
		if isd != 0 || as != 0 {
			neighbor, err := addr.IAFrom(addr.ISD(isd), addr.AS(as))
			if err != nil {
				return db.NewDataError("invalid neighbor ISD-AS", err, "interface", id)
			}
			intf.ISDAS = neighbor
		}
		intf.LinkType = topology.LinkType(linkType)
		br.Interfaces[id] = intf
	}
	if err := rows.Err(); err != nil {
		return db.NewReadError("iterating border router interfaces", err)
	}
	return nil
}

func readServices(ctx context.Context, q querier, asRow int64,
	topo *topology.Topology) (map[int64]*topology.Service, error) {

	rows, err := q.QueryContext(ctx,
		`SELECT RowID, Kind, Name FROM services WHERE ASRowID = ?`, asRow)
	if err != nil {
		return nil, db.NewReadError("selecting services", err)
	}
	defer rows.Close()
	collections := topo.Services()
	services := make(map[int64]*topology.Service)
	for rows.Next() {
		var rowID int64
		var kind, name string
		if err := rows.Scan(&rowID, &kind, &name); err != nil {
			return nil, db.NewReadError("scanning service", err)
		}
		collection, ok := collections[kind]
		if !ok {
			return nil, db.NewDataError("unknown service kind", nil, "kind", kind, "service", name)
		}
		svc := &topology.Service{}
		services[rowID] = svc
		collection[name] = svc
	}
	if err := rows.Err(); err != nil {
		return nil, db.NewReadError("iterating services", err)
	}
	return services, nil
}

func readServiceAddresses(ctx context.Context, q querier, asRow int64,
	services map[int64]*topology.Service) error {

	query := `
		SELECT a.ServiceRowID, a.IsPublic, a.Addr, a.L4Port
		FROM service_addresses a
		JOIN services s ON a.ServiceRowID = s.RowID
		WHERE s.ASRowID = ?
		ORDER BY a.ServiceRowID, a.IsPublic DESC, a.Pos`
	rows, err := q.QueryContext(ctx, query, asRow)
	if err != nil {
		return db.NewReadError("selecting service addresses", err)
	}
	defer rows.Close()
	for rows.Next() {
		var svcRow int64
		var public bool
		var a topology.Address
		if err := rows.Scan(&svcRow, &public, &a.Addr, &a.L4Port); err != nil {
			return db.NewReadError("scanning service address", err)
		}
		svc, ok := services[svcRow]
		if !ok {
			return db.NewDataError("dangling service address", nil, "service", svcRow)
		}
		if public {
			svc.Public = append(svc.Public, a)
		} else {
			svc.Bind = append(svc.Bind, a)
		}
	}
	if err := rows.Err(); err != nil {
		return db.NewReadError("iterating service addresses", err)
	}
	return nil
}
