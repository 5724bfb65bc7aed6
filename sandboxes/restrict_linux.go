//go:build linux

package sandboxes

import (
	"fmt"
	"unsafe"

	"github.com/reusee/tutor/logs"
	"golang.org/x/sys/unix"
)

// Restrict uses Linux Landlock to deny filesystem writes to the whole process,
// except beneath the writable directories. Reads stay unrestricted.
func Restrict(logger logs.Logger, writable ...string) error {
	abi, _, errNo := unix.Syscall(
		unix.SYS_LANDLOCK_CREATE_RULESET,
		0, 0, unix.LANDLOCK_CREATE_RULESET_VERSION,
	)
	if errNo != 0 {
		// CI, WSL and older kernels
		if errNo == unix.ENOSYS || errNo == unix.EOPNOTSUPP || errNo == unix.ENOPKG || errNo == unix.EINVAL {
			logger.Warn("landlock not supported or disabled by kernel, running without filesystem restriction", "error", errNo)
			return nil
		}
		return fmt.Errorf("landlock_create_ruleset(version): %w", errNo)
	}
	if abi < 1 {
		logger.Warn("landlock ABI version is 0, running without filesystem restriction")
		return nil
	}

	readRights := uint64(unix.LANDLOCK_ACCESS_FS_READ_FILE |
		unix.LANDLOCK_ACCESS_FS_READ_DIR)

	writeRights := uint64(unix.LANDLOCK_ACCESS_FS_WRITE_FILE |
		unix.LANDLOCK_ACCESS_FS_REMOVE_DIR |
		unix.LANDLOCK_ACCESS_FS_REMOVE_FILE |
		unix.LANDLOCK_ACCESS_FS_MAKE_CHAR |
		unix.LANDLOCK_ACCESS_FS_MAKE_DIR |
		unix.LANDLOCK_ACCESS_FS_MAKE_REG |
		unix.LANDLOCK_ACCESS_FS_MAKE_SOCK |
		unix.LANDLOCK_ACCESS_FS_MAKE_FIFO |
		unix.LANDLOCK_ACCESS_FS_MAKE_BLOCK |
		unix.LANDLOCK_ACCESS_FS_MAKE_SYM)
	if abi >= 2 {
		writeRights |= unix.LANDLOCK_ACCESS_FS_REFER
	}
	if abi >= 3 {
		writeRights |= unix.LANDLOCK_ACCESS_FS_TRUNCATE
	}

	rulesetAttr := unix.LandlockRulesetAttr{
		Access_fs: readRights | writeRights,
	}
	ruleset, _, errNo := unix.Syscall(
		unix.SYS_LANDLOCK_CREATE_RULESET,
		uintptr(unsafe.Pointer(&rulesetAttr)),
		unsafe.Sizeof(rulesetAttr),
		0,
	)
	if errNo != 0 {
		return fmt.Errorf("landlock_create_ruleset: %w", errNo)
	}
	defer unix.Close(int(ruleset))

	addRule := func(path string, access uint64) error {
		fd, err := unix.Open(path, unix.O_PATH|unix.O_DIRECTORY|unix.O_CLOEXEC, 0)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		defer unix.Close(fd)
		attr := unix.LandlockPathBeneathAttr{
			Parent_fd:      int32(fd),
			Allowed_access: access,
		}
		if _, _, errNo := unix.Syscall(
			unix.SYS_LANDLOCK_ADD_RULE,
			ruleset,
			unix.LANDLOCK_RULE_PATH_BENEATH,
			uintptr(unsafe.Pointer(&attr)),
		); errNo != 0 {
			return fmt.Errorf("add rule for %s: %w", path, errNo)
		}
		return nil
	}

	if err := addRule("/", readRights); err != nil {
		return err
	}
	for _, dir := range writable {
		if err := addRule(dir, readRights|writeRights); err != nil {
			return err
		}
	}

	if err := unix.Prctl(unix.PR_SET_NO_NEW_PRIVS, 1, 0, 0, 0); err != nil {
		return fmt.Errorf("prctl no_new_privs: %w", err)
	}
	if _, _, errNo := unix.Syscall(
		unix.SYS_LANDLOCK_RESTRICT_SELF,
		ruleset,
		0, 0,
	); errNo != 0 {
		return fmt.Errorf("landlock_restrict_self: %w", errNo)
	}

	logger.Info("process restricted", "abi", abi, "writable", writable)
	return nil
}
