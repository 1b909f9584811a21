/*
Package protocol loads forms and reproduces the submission sequence of the
form server.

A form page carries the positional JSON document decoded by internal/compiler,
an anti-forgery token (fbzx), the page history and the running draft. Each
page of a multi-page form is posted separately: the server answers with the
next page and an updated history and draft, which the client must agree with.

Two submission modes are supported:

  - Step mode posts every page on the realized path and checks that the page
    the server moves to is the one predicted locally.
  - History emulation builds the history and draft locally and posts only the
    last page. When a receipt is requested on a multi-page form, the last page
    is first fetched with the back hack so that the captcha handler only sees
    that page.

Transport and HTML scraping are delegated to ports.HTTPClient and
ports.Extractor.
*/
package protocol
