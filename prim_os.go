package shi

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// writePrim: (write fd str) — a raw unix.Write over a file descriptor,
// not an os.File, matching the original's direct write(2) call and the
// fd-oriented net/event-loop primitives that share these descriptors.
func writePrim(rt *Runtime, env, args Ref) (Ref, error) {
	fdRef, strRef, err := rt.evalTwoArgs(env, args, "write")
	if err != nil {
		return RefNil, err
	}
	if fdRef.IsSingleton() || rt.cellAt(fdRef).tag != TagInt {
		return RefNil, rt.typeErrorf(fdRef, "int", "write")
	}
	if strRef.IsSingleton() || rt.cellAt(strRef).tag != TagStr {
		return RefNil, rt.typeErrorf(strRef, "str", "write")
	}
	fd := int(rt.cellAt(fdRef).i)
	if _, err := unix.Write(fd, []byte(rt.StrVal(strRef))); err != nil {
		return RefNil, newError(ErrResource, "write: %s", err)
	}
	return RefNil, nil
}

// readPrim: (read fd n) reads up to n bytes from fd into a fresh Str.
// A non-blocking fd with nothing ready returns Nil (EAGAIN/EWOULDBLOCK),
// matching the event-loop's cooperative contract (spec.md §4.10).
func readPrim(rt *Runtime, env, args Ref) (Ref, error) {
	fdRef, nRef, err := rt.evalTwoArgs(env, args, "read")
	if err != nil {
		return RefNil, err
	}
	if fdRef.IsSingleton() || rt.cellAt(fdRef).tag != TagInt {
		return RefNil, rt.typeErrorf(fdRef, "int", "read")
	}
	if nRef.IsSingleton() || rt.cellAt(nRef).tag != TagInt {
		return RefNil, rt.typeErrorf(nRef, "int", "read")
	}
	fd := int(rt.cellAt(fdRef).i)
	n := int(rt.cellAt(nRef).i)
	buf := make([]byte, n)
	nread, err := unix.Read(fd, buf)
	if err == unix.EAGAIN || err == unix.EWOULDBLOCK || err == unix.EINTR {
		return RefNil, nil
	}
	if err != nil {
		return RefNil, newError(ErrResource, "read: %s", err)
	}
	if nread == 0 {
		return RefNil, nil
	}
	return rt.NewStr(string(buf[:nread])), nil
}

func secondsPrim(rt *Runtime, env, args Ref) (Ref, error) {
	if args != RefNil {
		return RefNil, arityErrorf("seconds", "takes no arguments")
	}
	return rt.NewInt(time.Now().Unix()), nil
}

// sleepPrim: (sleep ms) blocks the whole process. Per spec.md §4.10,
// this is one of the cooperative suspension points; it does not hand
// control to the event loop.
func sleepPrim(rt *Runtime, env, args Ref) (Ref, error) {
	msRef, err := rt.evalOneArg(env, args, "sleep")
	if err != nil {
		return RefNil, err
	}
	if msRef.IsSingleton() || rt.cellAt(msRef).tag != TagInt {
		return RefNil, rt.typeErrorf(msRef, "int", "sleep")
	}
	time.Sleep(time.Duration(rt.cellAt(msRef).i) * time.Millisecond)
	return RefNil, nil
}

func exitPrim(rt *Runtime, env, args Ref) (Ref, error) {
	codeRef, err := rt.evalOneArg(env, args, "exit")
	if err != nil {
		return RefNil, err
	}
	if codeRef.IsSingleton() || rt.cellAt(codeRef).tag != TagInt {
		return RefNil, rt.typeErrorf(codeRef, "int", "exit")
	}
	rt.restoreTerminal()
	rt.exit(int(rt.cellAt(codeRef).i))
	return RefNil, nil
}

// openPrim: (open path mode?) -> fd, mode defaults to read-only.
// Recognises the same fopen(3)-style mode letters the original
// interpreter forwards, translated to open(2) flags.
func openPrim(rt *Runtime, env, args Ref) (Ref, error) {
	var pathRef, modeRef Ref
	haveMode := false
	_, err := rt.withEvaledArgs(env, args, func(slots []*Ref) (Ref, error) {
		if len(slots) < 1 || len(slots) > 2 {
			return RefNil, arityErrorf("open", "expected 1 or 2 arguments, got %d", len(slots))
		}
		pathRef = *slots[0]
		if len(slots) == 2 {
			modeRef = *slots[1]
			haveMode = true
		}
		return RefNil, nil
	})
	if err != nil {
		return RefNil, err
	}
	if pathRef.IsSingleton() || rt.cellAt(pathRef).tag != TagStr {
		return RefNil, rt.typeErrorf(pathRef, "str", "open")
	}
	mode := "r"
	if haveMode {
		if modeRef.IsSingleton() || rt.cellAt(modeRef).tag != TagStr {
			return RefNil, rt.typeErrorf(modeRef, "str", "open")
		}
		mode = rt.StrVal(modeRef)
	}
	flags := fopenModeToFlags(mode)
	fd, err := unix.Open(rt.StrVal(pathRef), flags, 0644)
	if err != nil {
		return RefNil, newError(ErrResource, "open: %s", err)
	}
	return rt.NewInt(int64(fd)), nil
}

func fopenModeToFlags(mode string) int {
	switch mode {
	case "w":
		return unix.O_WRONLY | unix.O_CREAT | unix.O_TRUNC
	case "a":
		return unix.O_WRONLY | unix.O_CREAT | unix.O_APPEND
	case "r+", "w+", "a+":
		return unix.O_RDWR | unix.O_CREAT
	default:
		return unix.O_RDONLY
	}
}

func closePrim(rt *Runtime, env, args Ref) (Ref, error) {
	fdRef, err := rt.evalOneArg(env, args, "close")
	if err != nil {
		return RefNil, err
	}
	if fdRef.IsSingleton() || rt.cellAt(fdRef).tag != TagInt {
		return RefNil, rt.typeErrorf(fdRef, "int", "close")
	}
	if err := unix.Close(int(rt.cellAt(fdRef).i)); err != nil {
		return RefNil, newError(ErrResource, "close: %s", err)
	}
	return RefNil, nil
}

func getenvPrim(rt *Runtime, env, args Ref) (Ref, error) {
	nameRef, err := rt.evalOneArg(env, args, "getenv")
	if err != nil {
		return RefNil, err
	}
	if nameRef.IsSingleton() || rt.cellAt(nameRef).tag != TagStr {
		return RefNil, rt.typeErrorf(nameRef, "str", "getenv")
	}
	v, ok := os.LookupEnv(rt.StrVal(nameRef))
	if !ok {
		return RefNil, nil
	}
	return rt.NewStr(v), nil
}

func installOsPrims(rt *Runtime) {
	rt.registerPrim("write", writePrim)
	rt.registerPrim("read", readPrim)
	rt.registerPrim("seconds", secondsPrim)
	rt.registerPrim("sleep", sleepPrim)
	rt.registerPrim("exit", exitPrim)
	rt.registerPrim("open", openPrim)
	rt.registerPrim("close", closePrim)
	rt.registerPrim("getenv", getenvPrim)
}
