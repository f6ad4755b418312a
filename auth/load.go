package auth

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/adamwoolhether/scorpion/web"
)

// Credential is one user record.
type Credential struct {
	Username string `json:"username" yaml:"username" validate:"required"`
	Password string `json:"password" yaml:"password"`
}

// Permission is one grant record. An empty User grants the anonymous user.
type Permission struct {
	Mode   string `json:"mode" yaml:"mode" validate:"required,oneof=r w"`
	User   string `json:"user" yaml:"user"`
	Prefix string `json:"prefix" yaml:"prefix" validate:"required,resource"`
}

// document is the YAML layout accepted by LoadYAML.
type document struct {
	Users       []Credential `yaml:"users"`
	Permissions []Permission `yaml:"permissions"`
}

// LoadCredentials replaces the directory's users with the tab-separated
// "username<TAB>password" lines read from r. Blank lines and lines
// starting with '#' are skipped.
func (d *Directory) LoadCredentials(r io.Reader) error {
	var creds []Credential

	err := scanRecords(r, 2, func(line int, fields []string) error {
		c := Credential{Username: fields[0], Password: fields[1]}
		if err := web.Validate(c); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		creds = append(creds, c)
		return nil
	})
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}

	d.replace(creds, nil, true, false)

	return nil
}

// LoadPermissions replaces the directory's grants with the tab-separated
// "mode<TAB>user<TAB>prefix" lines read from r.
func (d *Directory) LoadPermissions(r io.Reader) error {
	var perms []Permission

	err := scanRecords(r, 3, func(line int, fields []string) error {
		p := Permission{Mode: fields[0], User: fields[1], Prefix: fields[2]}
		if err := web.Validate(p); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		perms = append(perms, p)
		return nil
	})
	if err != nil {
		return fmt.Errorf("loading permissions: %w", err)
	}

	d.replace(nil, perms, false, true)

	return nil
}

// LoadYAML replaces users and grants with the contents of a YAML document:
//
//	users:
//	  - username: jeff
//	    password: test
//	permissions:
//	  - mode: w
//	    user: jeff
//	    prefix: /jeff
func (d *Directory) LoadYAML(r io.Reader) error {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decoding yaml: %w", err)
	}

	for i, c := range doc.Users {
		if err := web.Validate(c); err != nil {
			return fmt.Errorf("users[%d]: %w", i, err)
		}
	}
	for i, p := range doc.Permissions {
		if err := web.Validate(p); err != nil {
			return fmt.Errorf("permissions[%d]: %w", i, err)
		}
	}

	d.replace(doc.Users, doc.Permissions, true, true)

	return nil
}

// LoadFiles loads the credentials and permissions files at the given paths.
// A path that is empty or does not exist leaves that half of the directory
// untouched.
func (d *Directory) LoadFiles(credentialsPath, permissionsPath string) error {
	if err := loadFile(credentialsPath, d.LoadCredentials); err != nil {
		return err
	}

	return loadFile(permissionsPath, d.LoadPermissions)
}

// LoadYAMLFile is LoadYAML for a file path. A missing file is not an error.
func (d *Directory) LoadYAMLFile(path string) error {
	return loadFile(path, d.LoadYAML)
}

func loadFile(path string, load func(io.Reader) error) error {
	if path == "" {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	if err := load(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	return nil
}

func (d *Directory) replace(creds []Credential, perms []Permission, setCreds, setPerms bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if setCreds {
		d.credentials = make(map[string]string, len(creds))
		for _, c := range creds {
			d.credentials[c.Username] = c.Password
		}
	}

	if setPerms {
		d.grants = make(map[Mode]map[string][]string)
		for _, p := range perms {
			mode := Mode(p.Mode)
			if d.grants[mode] == nil {
				d.grants[mode] = make(map[string][]string)
			}
			d.grants[mode][p.User] = append(d.grants[mode][p.User], p.Prefix)
		}
	}
}

// scanRecords calls fn with the first n tab-separated fields of every
// non-blank, non-comment line.
func scanRecords(r io.Reader, n int, fn func(line int, fields []string) error) error {
	sc := bufio.NewScanner(r)

	for line := 1; sc.Scan(); line++ {
		text := strings.TrimRight(sc.Text(), "\r\n ")
		text = strings.TrimLeft(text, " ")
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Split(text, "\t")
		if len(fields) < n {
			return fmt.Errorf("line %d: want %d tab-separated fields, got %d", line, n, len(fields))
		}

		if err := fn(line, fields[:n]); err != nil {
			return err
		}
	}

	return sc.Err()
}
