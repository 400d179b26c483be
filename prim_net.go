package shi

import (
	"net"

	"golang.org/x/sys/unix"
)

// socketPrim: (socket domain type protocol) -> fd. Every socket this
// interpreter creates is switched to non-blocking mode immediately,
// matching the original's setnonblock call right after socket(2) and
// the watcher registry's cooperative-scheduling contract (spec.md
// §4.10).
func socketPrim(rt *Runtime, env, args Ref) (Ref, error) {
	var domain, typ, proto int64
	_, err := rt.withEvaledArgs(env, args, func(slots []*Ref) (Ref, error) {
		vals, err := requireInts(rt, "socket", slots)
		if err != nil {
			return RefNil, err
		}
		if len(vals) != 3 {
			return RefNil, arityErrorf("socket", "expected 3 arguments, got %d", len(vals))
		}
		domain, typ, proto = vals[0], vals[1], vals[2]
		return RefNil, nil
	})
	if err != nil {
		return RefNil, err
	}
	fd, err := unix.Socket(int(domain), int(typ), int(proto))
	if err != nil {
		return RefNil, newError(ErrResource, "socket: %s", err)
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)
		return RefNil, newError(ErrResource, "socket: error making socket non-blocking: %s", err)
	}
	return rt.NewInt(int64(fd)), nil
}

// bindInetPrim: (bind-inet socket-fd host port).
func bindInetPrim(rt *Runtime, env, args Ref) (Ref, error) {
	var fd int
	var host string
	var port int
	_, err := rt.withEvaledArgs(env, args, func(slots []*Ref) (Ref, error) {
		if len(slots) != 3 {
			return RefNil, arityErrorf("bind-inet", "expected 3 arguments, got %d", len(slots))
		}
		fdRef, hostRef, portRef := *slots[0], *slots[1], *slots[2]
		if fdRef.IsSingleton() || rt.cellAt(fdRef).tag != TagInt {
			return RefNil, rt.typeErrorf(fdRef, "int", "bind-inet")
		}
		if hostRef.IsSingleton() || rt.cellAt(hostRef).tag != TagStr {
			return RefNil, rt.typeErrorf(hostRef, "str", "bind-inet")
		}
		if portRef.IsSingleton() || rt.cellAt(portRef).tag != TagInt {
			return RefNil, rt.typeErrorf(portRef, "int", "bind-inet")
		}
		fd = int(rt.cellAt(fdRef).i)
		host = rt.StrVal(hostRef)
		port = int(rt.cellAt(portRef).i)
		return RefNil, nil
	})
	if err != nil {
		return RefNil, err
	}
	ip := net.ParseIP(host)
	if ip == nil || ip.To4() == nil {
		return RefNil, newError(ErrResource, "bind-inet: could not parse host: %s", host)
	}
	addr := unix.SockaddrInet4{Port: port}
	copy(addr.Addr[:], ip.To4())
	if err := unix.Bind(fd, &addr); err != nil {
		return RefNil, newError(ErrResource, "bind-inet: %s", err)
	}
	return RefNil, nil
}

func listenPrim(rt *Runtime, env, args Ref) (Ref, error) {
	var fd, backlog int64
	_, err := rt.withEvaledArgs(env, args, func(slots []*Ref) (Ref, error) {
		vals, err := requireInts(rt, "listen", slots)
		if err != nil {
			return RefNil, err
		}
		if len(vals) != 2 {
			return RefNil, arityErrorf("listen", "expected 2 arguments, got %d", len(vals))
		}
		fd, backlog = vals[0], vals[1]
		return RefNil, nil
	})
	if err != nil {
		return RefNil, err
	}
	if err := unix.Listen(int(fd), int(backlog)); err != nil {
		return RefNil, newError(ErrResource, "listen: %s", err)
	}
	return RefNil, nil
}

// acceptPrim: (accept socket-fd) -> client fd, or Nil if the socket
// isn't ready (EWOULDBLOCK/EINTR) — the same non-blocking contract the
// original interpreter documents (original_source/src/shi.c
// prim_accept).
func acceptPrim(rt *Runtime, env, args Ref) (Ref, error) {
	fdRef, err := rt.evalOneArg(env, args, "accept")
	if err != nil {
		return RefNil, err
	}
	if fdRef.IsSingleton() || rt.cellAt(fdRef).tag != TagInt {
		return RefNil, rt.typeErrorf(fdRef, "int", "accept")
	}
	clientFd, _, err := unix.Accept(int(rt.cellAt(fdRef).i))
	if err == unix.EWOULDBLOCK || err == unix.EINTR {
		return RefNil, nil
	}
	if err != nil {
		return RefNil, newError(ErrResource, "accept: %s", err)
	}
	if err := unix.SetNonblock(clientFd, true); err != nil {
		unix.Close(clientFd)
		return RefNil, newError(ErrResource, "accept: error making client socket non-blocking: %s", err)
	}
	return rt.NewInt(int64(clientFd)), nil
}

func installNetPrims(rt *Runtime) {
	rt.registerPrim("socket", socketPrim)
	rt.registerPrim("bind-inet", bindInetPrim)
	rt.registerPrim("listen", listenPrim)
	rt.registerPrim("accept", acceptPrim)
}
